package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeError        = "error"
	OutcomeTimeout      = "timeout"
	OutcomeDisconnected = "disconnected"
	OutcomeShutdown     = "shutdown"
	OutcomeNotConnected = "not_connected"
	OutcomeUnknown      = "unknown_method"
	OutcomeCanceled     = "canceled"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "edabridge_build_info",
			Help: "Build information",
		},
		[]string{"component", "version"},
	)

	calls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edabridge_calls_total",
			Help: "Calls sent by the bridge server, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edabridge_call_duration_seconds",
			Help:    "Time from send to settlement",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	pendingCalls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "edabridge_pending_calls",
			Help: "Calls awaiting a response",
		},
	)

	peerConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "edabridge_peer_connected",
			Help: "Whether a bridge client is attached",
		},
	)

	bindAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edabridge_bind_attempts_total",
			Help: "Port bind attempts while scanning the port window",
		},
		[]string{"result"},
	)

	dispatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edabridge_dispatch_total",
			Help: "Requests dispatched by the bridge client, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	connectedPorts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "edabridge_connected_ports",
			Help: "Ports the bridge client holds a connection to",
		},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, calls, callDuration, pendingCalls, peerConnected, bindAttempts, dispatches, connectedPorts)
}

// SetBuildInfo sets the build info metric for a component.
func SetBuildInfo(component, version string) {
	buildInfo.WithLabelValues(component, version).Set(1)
}

// RecordCall counts a settled call and observes its latency.
func RecordCall(method, outcome string, d time.Duration) {
	calls.WithLabelValues(method, outcome).Inc()
	callDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordRejectedCall counts a call that failed before being sent.
func RecordRejectedCall(method, outcome string) {
	calls.WithLabelValues(method, outcome).Inc()
}

func AddPendingCalls(n int) { pendingCalls.Add(float64(n)) }

// SetPeerConnected toggles the peer gauge.
func SetPeerConnected(connected bool) {
	if connected {
		peerConnected.Set(1)
	} else {
		peerConnected.Set(0)
	}
}

// RecordBindAttempt counts a port bind with result "bound", "in_use" or "error".
func RecordBindAttempt(result string) {
	bindAttempts.WithLabelValues(result).Inc()
}

// RecordDispatch counts a request handled by the bridge client.
func RecordDispatch(method, outcome string) {
	dispatches.WithLabelValues(method, outcome).Inc()
}

// SetConnectedPorts sets the connected port gauge.
func SetConnectedPorts(n int) {
	connectedPorts.Set(float64(n))
}

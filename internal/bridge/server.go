// Package bridge turns a websocket connection from the editor extension
// into an awaitable call interface.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/metrics"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// DefaultBasePort is the first port of the window.
const DefaultBasePort = 15168

// DefaultPortWindow is the number of ports in the window.
const DefaultPortWindow = 20

// Options configures a Server.
type Options struct {
	Host           string
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	// AllowAnyOrigin disables the origin check, including for requests
	// without an Origin header. Intended for trusted local testing.
	AllowAnyOrigin bool
	// PingInterval is the keepalive period. Negative disables pings.
	PingInterval time.Duration
	WriteTimeout time.Duration
	ReadLimit    int64
	// Gatherer, when set, is exposed on /metrics.
	Gatherer prometheus.Gatherer
}

func (o *Options) setDefaults() {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.AllowedOrigins == nil {
		o.AllowedOrigins = DefaultAllowedOrigins
	}
	if o.PingInterval == 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadLimit == 0 {
		o.ReadLimit = -1
	}
}

// Server accepts one editor extension at a time and correlates responses
// with the calls that caused them.
type Server struct {
	opts Options
	log  zerolog.Logger

	ln     net.Listener
	srv    *http.Server
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	nextID atomic.Uint64

	mu       sync.Mutex
	bound    int
	peer     *peer
	peers    map[*peer]struct{}
	started  bool
	stopping bool
}

type peer struct {
	conn    *websocket.Conn
	remote  string
	origin  string
	pending map[string]*pendingCall
	closed  bool
}

type pendingCall struct {
	id     string
	method string
	start  time.Time
	timer  *time.Timer
	done   chan outcome
}

type outcome struct {
	result wire.Value
	err    error
}

// settle must only be called by whoever removed c from its pending set.
func (c *pendingCall) settle(result wire.Value, err error) {
	c.done <- outcome{result: result, err: err}
}

// New returns a server for opts. Call Start to bind it.
func New(opts Options) *Server {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		opts:   opts,
		log:    logx.Component("bridge"),
		ctx:    ctx,
		cancel: cancel,
		peers:  map[*peer]struct{}{},
	}
}

// Start binds the listening socket and serves in the background. A port
// already taken yields a *BindError matching ErrPortInUse.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	if !isLoopback(s.opts.Host) {
		return &BindError{Addr: addr, Port: s.opts.Port, Err: fmt.Errorf("host %q is not a loopback address", s.opts.Host)}
	}
	s.mu.Lock()
	if s.started || s.stopping {
		s.mu.Unlock()
		return errors.New("bridge: server already started")
	}
	s.started = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return &BindError{Addr: addr, Port: s.opts.Port, InUse: isAddrInUse(err), Err: err}
	}
	srv := &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Lock()
	s.ln = ln
	s.srv = srv
	if a, ok := ln.Addr().(*net.TCPAddr); ok {
		s.bound = a.Port
	}
	s.mu.Unlock()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Int("port", s.Port()).Msg("bridge server stopped unexpectedly")
		}
	}()
	s.log.Info().Int("port", s.Port()).Msg("bridge listening, waiting for the editor extension")
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Port reports the bound port, or the configured one before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != 0 {
		return s.bound
	}
	return s.opts.Port
}

// Timeout is the default bound applied by Send.
func (s *Server) Timeout() time.Duration { return s.opts.Timeout }

// IsConnected reports whether a peer is attached and open.
func (s *Server) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peer != nil && !s.peer.closed
}

// Pending reports the number of calls awaiting a response.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for p := range s.peers {
		n += len(p.pending)
	}
	return n
}

// Status is a snapshot for health reporting.
type Status struct {
	Status    string `json:"status"`
	Port      int    `json:"port"`
	Connected bool   `json:"connected"`
	Pending   int    `json:"pending"`
	Origin    string `json:"origin,omitempty"`
}

// Status returns a snapshot of the server state.
func (s *Server) Status() Status {
	st := Status{Status: "ok", Port: s.Port(), Connected: s.IsConnected(), Pending: s.Pending()}
	s.mu.Lock()
	if s.stopping {
		st.Status = "stopping"
	}
	if s.peer != nil {
		st.Origin = s.peer.origin
	}
	s.mu.Unlock()
	return st
}

// Send calls method on the peer with the default timeout.
func (s *Server) Send(ctx context.Context, method string, params *wire.Object) (wire.Value, error) {
	return s.SendTimeout(ctx, method, params, s.opts.Timeout)
}

// SendTimeout calls method on the peer and waits for its response, the
// timeout, the loss of the peer or ctx, whichever comes first.
func (s *Server) SendTimeout(ctx context.Context, method string, params *wire.Object, timeout time.Duration) (wire.Value, error) {
	if timeout <= 0 {
		timeout = s.opts.Timeout
	}
	if params == nil {
		params = wire.NewObject()
	}

	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		metrics.RecordRejectedCall(method, metrics.OutcomeShutdown)
		return wire.Value{}, ErrShuttingDown
	}
	p := s.peer
	if p == nil || p.closed {
		s.mu.Unlock()
		metrics.RecordRejectedCall(method, metrics.OutcomeNotConnected)
		return wire.Value{}, ErrNotConnected
	}
	id := strconv.FormatUint(s.nextID.Add(1), 10)
	payload, err := json.Marshal(wire.Request{ID: id, Method: method, Params: params})
	if err != nil {
		s.mu.Unlock()
		return wire.Value{}, fmt.Errorf("encode %s: %w", method, err)
	}
	c := &pendingCall{id: id, method: method, start: time.Now(), done: make(chan outcome, 1)}
	// The timer cannot fire into take before the lock is released.
	c.timer = time.AfterFunc(timeout, func() {
		if c := s.take(p, id); c != nil {
			s.log.Warn().Str("method", method).Str("id", id).Dur("elapsed", timeout).Msg("request timed out")
			c.settle(wire.Value{}, &TimeoutError{Method: method, After: timeout})
		}
	})
	p.pending[id] = c
	metrics.AddPendingCalls(1)
	s.mu.Unlock()

	wctx, cancel := context.WithTimeout(s.ctx, s.opts.WriteTimeout)
	err = p.conn.Write(wctx, websocket.MessageText, payload)
	cancel()
	if err != nil {
		if c := s.take(p, id); c != nil {
			c.settle(wire.Value{}, fmt.Errorf("%w: %v", ErrDisconnected, err))
		}
		_ = p.conn.CloseNow()
	}

	var o outcome
	select {
	case o = <-c.done:
	case <-ctx.Done():
		if c := s.take(p, id); c != nil {
			c.settle(wire.Value{}, ctx.Err())
		}
		o = <-c.done
	}
	metrics.RecordCall(method, outcomeOf(o.err), time.Since(c.start))
	return o.result, o.err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, ErrDisconnected):
		return metrics.OutcomeDisconnected
	case errors.Is(err, ErrShuttingDown):
		return metrics.OutcomeShutdown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

// take removes id from p's pending set and stops its timer. It returns nil
// when the call was already settled.
func (s *Server) take(p *peer, id string) *pendingCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := p.pending[id]
	if !ok {
		return nil
	}
	delete(p.pending, id)
	c.timer.Stop()
	metrics.AddPendingCalls(-1)
	return c
}

// drain empties p's pending set. Callers hold s.mu.
func (s *Server) drain(p *peer) []*pendingCall {
	calls := make([]*pendingCall, 0, len(p.pending))
	for _, c := range p.pending {
		c.timer.Stop()
		calls = append(calls, c)
	}
	p.pending = map[string]*pendingCall{}
	metrics.AddPendingCalls(-len(calls))
	return calls
}

// Routes returns the HTTP handler: the websocket endpoint on "/", health on
// "/healthz" and, when a gatherer is configured, "/metrics".
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleWS)
	allowed := s.opts.AllowedOrigins
	if s.opts.AllowAnyOrigin {
		allowed = []string{"*"}
	}
	r.With(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "OPTIONS"},
	})).Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.opts.Gatherer))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Status())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !s.opts.AllowAnyOrigin && !originAllowed(origin, s.opts.AllowedOrigins) {
		s.log.Warn().Str("origin", origin).Str("remote_addr", r.RemoteAddr).Msg("rejected connection from untrusted origin")
		http.Error(w, ErrRejectedOrigin.Error(), http.StatusForbidden)
		return
	}
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		http.Error(w, ErrShuttingDown.Error(), http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	// The origin was verified above.
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket handshake failed")
		return
	}
	c.SetReadLimit(s.opts.ReadLimit)

	p := &peer{conn: c, remote: r.RemoteAddr, origin: origin, pending: map[string]*pendingCall{}}
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		_ = c.Close(websocket.StatusGoingAway, ErrShuttingDown.Error())
		return
	}
	if s.peer != nil {
		s.log.Info().Str("remote_addr", s.peer.remote).Msg("replacing tracked bridge client with a newer connection")
	}
	s.peer = p
	s.peers[p] = struct{}{}
	metrics.SetPeerConnected(true)
	s.mu.Unlock()
	s.log.Info().Int("port", s.Port()).Str("origin", origin).Str("remote_addr", r.RemoteAddr).
		Str("client_id", r.Header.Get(wire.ClientIDHeader)).Msg("editor extension connected")

	pingCtx, stopPing := context.WithCancel(s.ctx)
	if s.opts.PingInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.pingLoop(pingCtx, p)
		}()
	}
	s.readLoop(p)
	stopPing()
}

func (s *Server) readLoop(p *peer) {
	defer s.dropPeer(p)
	for {
		_, data, err := p.conn.Read(s.ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				s.log.Debug().Int("status", int(status)).Msg("bridge client closed the connection")
			} else if s.ctx.Err() == nil {
				s.log.Debug().Err(err).Msg("bridge read failed")
			}
			return
		}
		var resp wire.Response
		if err := json.Unmarshal(data, &resp); err != nil || resp.ID == "" {
			s.log.Warn().Err(err).Int("bytes", len(data)).Msg("discarding malformed message from bridge client")
			continue
		}
		c := s.take(p, resp.ID)
		if c == nil {
			s.log.Warn().Str("id", resp.ID).Msg("received response for unknown request")
			continue
		}
		if resp.Failed() {
			c.settle(wire.Value{}, &RemoteError{Method: c.method, Message: resp.Error})
		} else {
			c.settle(resp.Result, nil)
		}
	}
}

// dropPeer rejects every call pending on p before the connection is
// released.
func (s *Server) dropPeer(p *peer) {
	s.mu.Lock()
	p.closed = true
	calls := s.drain(p)
	delete(s.peers, p)
	current := s.peer == p
	if current {
		s.peer = nil
		metrics.SetPeerConnected(false)
	}
	s.mu.Unlock()

	for _, c := range calls {
		c.settle(wire.Value{}, ErrDisconnected)
	}
	_ = p.conn.CloseNow()
	ev := s.log.Info().Str("remote_addr", p.remote).Int("rejected", len(calls))
	if current {
		ev.Msg("editor extension disconnected")
	} else {
		ev.Msg("superseded bridge client disconnected")
	}
}

func (s *Server) pingLoop(ctx context.Context, p *peer) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, s.opts.PingInterval)
			err := p.conn.Ping(pctx)
			cancel()
			if err != nil {
				if ctx.Err() == nil {
					s.log.Warn().Err(err).Str("remote_addr", p.remote).Msg("bridge client missed keepalive")
					_ = p.conn.CloseNow()
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop rejects all pending calls with ErrShuttingDown, closes the peers and
// releases the listening socket. It returns once every connection
// goroutine has exited.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	srv := s.srv
	var calls []*pendingCall
	peers := make([]*peer, 0, len(s.peers))
	for p := range s.peers {
		calls = append(calls, s.drain(p)...)
		peers = append(peers, p)
	}
	s.peer = nil
	metrics.SetPeerConnected(false)
	s.mu.Unlock()

	for _, c := range calls {
		c.settle(wire.Value{}, ErrShuttingDown)
	}

	var closing sync.WaitGroup
	for _, p := range peers {
		closing.Add(1)
		go func() {
			defer closing.Done()
			_ = p.conn.Close(websocket.StatusGoingAway, ErrShuttingDown.Error())
		}()
	}
	closing.Wait()
	s.cancel()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	s.wg.Wait()
	s.log.Info().Int("port", s.Port()).Int("rejected", len(calls)).Msg("bridge stopped")
	return err
}

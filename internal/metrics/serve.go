package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns a /metrics handler for g, or the global registry when g is nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done and returns the
// resolved listen address.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) (string, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	return serveUntilContext(ctx, addr, mux)
}

func serveUntilContext(ctx context.Context, addr string, handler http.Handler) (string, error) {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	go func() {
		<-ctx.Done()
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(c)
	}()
	go func() { _ = srv.Serve(ln) }()
	return ln.Addr().String(), nil
}

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/gaspardpetit/edabridge/internal/wire"
)

const testOrigin = "http://localhost:5173"

func startServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	s := New(opts)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func wsURL(s *Server) string { return fmt.Sprintf("ws://127.0.0.1:%d/", s.Port()) }

func dialPeer(t *testing.T, s *Server, origin string) *websocket.Conn {
	t.Helper()
	h := http.Header{}
	if origin != "" {
		h.Set("Origin", origin)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, wsURL(s), &websocket.DialOptions{HTTPHeader: h})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.CloseNow() })
	return c
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readRequest(t *testing.T, c *websocket.Conn) wire.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Errorf("peer read: %v", err)
		return wire.Request{}
	}
	var req wire.Request
	if err := json.Unmarshal(data, &req); err != nil {
		t.Errorf("peer decode: %v", err)
	}
	return req
}

func writeRaw(t *testing.T, c *websocket.Conn, payload []byte) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
		t.Errorf("peer write: %v", err)
	}
}

func writeResponse(t *testing.T, c *websocket.Conn, resp wire.Response) {
	t.Helper()
	b, _ := json.Marshal(resp)
	writeRaw(t, c, b)
}

func TestSendRoundTrip(t *testing.T) {
	s := startServer(t, Options{AllowedOrigins: []string{"http://localhost:*"}})
	peer := dialPeer(t, s, testOrigin)
	waitFor(t, "peer", s.IsConnected)

	go func() {
		req := readRequest(t, peer)
		netName, _ := req.Params.Get("net")
		out := wire.NewObject()
		out.Set("method", wire.String(req.Method))
		out.Set("net", netName)
		writeResponse(t, peer, wire.Success(req.ID, wire.ObjectValue(out)))
	}()

	params := wire.NewObject()
	params.Set("net", wire.String("GND"))
	res, err := s.Send(context.Background(), "pcb.getAll.via", params)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m, _ := res.Get("method"); m.Text() != "pcb.getAll.via" {
		t.Fatalf("unexpected result %s", res.Text())
	}
	if n, _ := res.Get("net"); n.Text() != "GND" {
		t.Fatalf("unexpected result %s", res.Text())
	}
	if s.Pending() != 0 {
		t.Fatalf("expected no pending calls, got %d", s.Pending())
	}
}

func TestConcurrentSendsResolveIndependently(t *testing.T) {
	const n = 50
	s := startServer(t, Options{AllowAnyOrigin: true})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	seen := make(chan []string, 1)
	go func() {
		reqs := make([]wire.Request, 0, n)
		for i := 0; i < n; i++ {
			reqs = append(reqs, readRequest(t, peer))
		}
		ids := make([]string, 0, n)
		// Answer in reverse order so completion order differs from send order.
		for i := len(reqs) - 1; i >= 0; i-- {
			tag, _ := reqs[i].Params.Get("tag")
			ids = append(ids, reqs[i].ID)
			writeResponse(t, peer, wire.Success(reqs[i].ID, tag))
		}
		seen <- ids
	}()

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			params := wire.NewObject()
			params.Set("tag", wire.Int(int64(i)))
			res, err := s.Send(context.Background(), "echo", params)
			if err != nil {
				errs <- err
				return
			}
			if got, ok := res.AsInt(); !ok || got != int64(i) {
				errs <- fmt.Errorf("call %d got %s", i, res.Text())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	ids := <-seen
	unique := map[string]bool{}
	for _, id := range ids {
		if unique[id] {
			t.Fatalf("request id %s reused", id)
		}
		unique[id] = true
	}
	if len(unique) != n {
		t.Fatalf("expected %d ids, got %d", n, len(unique))
	}
	if s.Pending() != 0 {
		t.Fatalf("pending calls left: %d", s.Pending())
	}
}

func TestSendTimeout(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	bound := 150 * time.Millisecond
	start := time.Now()
	_, err := s.SendTimeout(context.Background(), "pcb.drc.check", nil, bound)
	elapsed := time.Since(start)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Method != "pcb.drc.check" || te.After != bound {
		t.Fatalf("unexpected timeout error %#v", err)
	}
	if elapsed < bound || elapsed > bound+time.Second {
		t.Fatalf("timed out after %s, expected about %s", elapsed, bound)
	}
	if s.Pending() != 0 {
		t.Fatalf("timed out call still pending")
	}

	// A late answer for the expired id is discarded.
	writeResponse(t, peer, wire.Success("1", wire.Bool(true)))
	_ = peer.Close(websocket.StatusNormalClosure, "")
	waitFor(t, "disconnect", func() bool { return !s.IsConnected() })
	if s.Pending() != 0 {
		t.Fatalf("disconnect found pending calls")
	}
}

func TestDisconnectRejectsAllPending(t *testing.T) {
	const k = 5
	s := startServer(t, Options{AllowAnyOrigin: true, Timeout: 10 * time.Second})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		go func() {
			_, err := s.Send(context.Background(), "pcb.getAll.line", nil)
			errs <- err
		}()
	}
	for i := 0; i < k; i++ {
		readRequest(t, peer)
	}
	if got := s.Pending(); got != k {
		t.Fatalf("expected %d pending, got %d", k, got)
	}
	_ = peer.CloseNow()

	deadline := time.After(2 * time.Second)
	for i := 0; i < k; i++ {
		select {
		case err := <-errs:
			if !errors.Is(err, ErrDisconnected) {
				t.Fatalf("expected disconnected, got %v", err)
			}
		case <-deadline:
			t.Fatalf("only %d of %d calls rejected", i, k)
		}
	}
	if _, err := s.Send(context.Background(), "pcb.getAll.line", nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected not connected after disconnect, got %v", err)
	}
}

func TestRemoteErrorPassesThrough(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	go func() {
		req := readRequest(t, peer)
		writeResponse(t, peer, wire.Failure(req.ID, "Net not found: XYZ"))
	}()
	_, err := s.Send(context.Background(), "pcb.net.getLength", nil)
	if !errors.Is(err, ErrRemote) || err.Error() != "Net not found: XYZ" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUnknownAndMalformedResponsesAreDiscarded(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	go func() {
		req := readRequest(t, peer)
		writeRaw(t, peer, []byte("not json"))
		writeRaw(t, peer, []byte(`{"result":1}`))
		writeRaw(t, peer, []byte(`{"id":42,"result":1}`))
		writeResponse(t, peer, wire.Success("999", wire.Int(1)))
		writeResponse(t, peer, wire.Success(req.ID, wire.String("ok")))
	}()
	res, err := s.Send(context.Background(), "sch.select.getAll", nil)
	if err != nil || res.Text() != "ok" {
		t.Fatalf("send: %v %s", err, res.Text())
	}
	if !s.IsConnected() {
		t.Fatalf("malformed input dropped the peer")
	}
}

func TestSendWithoutPeer(t *testing.T) {
	s := startServer(t, Options{})
	start := time.Now()
	_, err := s.Send(context.Background(), "pcb.getAll.via", nil)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected not connected, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("not connected should fail fast")
	}
}

func TestSendContextCanceled(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		readRequest(t, peer)
		cancel()
	}()
	_, err := s.Send(ctx, "pcb.getAll.via", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if s.Pending() != 0 {
		t.Fatalf("canceled call still pending")
	}
}

func TestNewPeerReplacesTrackedPeer(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	first := dialPeer(t, s, "")
	waitFor(t, "first peer", s.IsConnected)
	second := dialPeer(t, s, "")
	waitFor(t, "second peer", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.peers) == 2
	})

	go func() {
		req := readRequest(t, second)
		writeResponse(t, second, wire.Success(req.ID, wire.String("second")))
	}()
	res, err := s.Send(context.Background(), "m", nil)
	if err != nil || res.Text() != "second" {
		t.Fatalf("send: %v %s", err, res.Text())
	}

	_ = first.CloseNow()
	waitFor(t, "first peer dropped", func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.peers) == 1
	})
	if !s.IsConnected() {
		t.Fatalf("closing a superseded peer detached the current one")
	}
}

func TestOriginCheck(t *testing.T) {
	s := startServer(t, Options{AllowedOrigins: []string{"https://*.easyeda.com"}})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, origin := range []string{"", "https://evil.example", "null"} {
		h := http.Header{}
		if origin != "" {
			h.Set("Origin", origin)
		}
		c, resp, err := websocket.Dial(ctx, wsURL(s), &websocket.DialOptions{HTTPHeader: h})
		if err == nil {
			_ = c.CloseNow()
			t.Fatalf("origin %q accepted", origin)
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Fatalf("origin %q: expected 403, got %v", origin, resp)
		}
	}
	if s.IsConnected() {
		t.Fatalf("rejected handshake reached the bridge")
	}

	dialPeer(t, s, "https://pro.easyeda.com")
	waitFor(t, "trusted peer", s.IsConnected)
}

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		origin string
		want   bool
	}{
		{"https://pro.easyeda.com", true},
		{"HTTPS://PRO.EASYEDA.COM", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:8080", true},
		{"http://localhost", true},
		{"http://127.0.0.1", true},
		{"https://easyeda.com.evil.io", false},
		{"http://localhost.evil.io:80", false},
		{"", false},
		{"null", false},
	}
	for _, c := range cases {
		if got := originAllowed(c.origin, DefaultAllowedOrigins); got != c.want {
			t.Fatalf("%q: expected %v, got %v", c.origin, c.want, got)
		}
	}
	if !originAllowed("http://tool.local:9000", []string{"tool.local:*"}) {
		t.Fatalf("host pattern did not match")
	}
}

func TestStopRejectsPendingAndReleasesPort(t *testing.T) {
	s := New(Options{Host: "127.0.0.1", AllowAnyOrigin: true, Timeout: 10 * time.Second})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	peer := dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	errs := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "pcb.document.save", nil)
		errs <- err
	}()
	readRequest(t, peer)
	go func() {
		// Keep reading so the close handshake completes.
		_, _, _ = peer.Read(context.Background())
	}()

	port := s.Port()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	select {
	case err := <-errs:
		if !errors.Is(err, ErrShuttingDown) {
			t.Fatalf("expected shutting down, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not rejected by stop")
	}
	if _, err := s.Send(context.Background(), "pcb.document.save", nil); !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("expected shutting down after stop, got %v", err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("port not released: %v", err)
	}
	_ = ln.Close()
}

func TestHealthz(t *testing.T) {
	s := startServer(t, Options{AllowAnyOrigin: true})
	dialPeer(t, s, "")
	waitFor(t, "peer", s.IsConnected)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", s.Port()))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	var st Status
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if st.Status != "ok" || !st.Connected || st.Port != s.Port() {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStartRejectsNonLoopbackHost(t *testing.T) {
	s := New(Options{Host: "0.0.0.0"})
	err := s.Start()
	var be *BindError
	if !errors.As(err, &be) || errors.Is(err, ErrPortInUse) {
		t.Fatalf("expected non-retryable bind error, got %v", err)
	}
}

func TestPortDuringStart(t *testing.T) {
	s := New(Options{Port: 0, PingInterval: -1})
	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = s.Port()
					_ = s.Status()
				}
			}
		}()
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	close(stop)
	readers.Wait()
	defer func() { _ = s.Stop(context.Background()) }()
	if s.Port() == 0 {
		t.Fatalf("expected the bound port, got 0")
	}
}

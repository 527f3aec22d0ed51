package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaspardpetit/edabridge/internal/bridge"
	"github.com/gaspardpetit/edabridge/internal/config"
	"github.com/gaspardpetit/edabridge/internal/handlers"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

const testOrigin = "http://localhost:5173"

// freeWindow finds n consecutive free loopback ports.
func freeWindow(t *testing.T, n int) int {
	t.Helper()
	for i := 0; i < 50; i++ {
		first, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		base := first.Addr().(*net.TCPAddr).Port
		held := []net.Listener{first}
		ok := true
		for p := base + 1; p < base+n; p++ {
			ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p))
			if err != nil {
				ok = false
				break
			}
			held = append(held, ln)
		}
		for _, ln := range held {
			_ = ln.Close()
		}
		if ok {
			return base
		}
	}
	t.Fatal("no free port window")
	return 0
}

func startBridge(t *testing.T, port int) *bridge.Server {
	t.Helper()
	s := bridge.New(bridge.Options{
		Host:           "127.0.0.1",
		Port:           port,
		AllowedOrigins: []string{"http://localhost:*"},
		PingInterval:   -1,
		Timeout:        2 * time.Second,
	})
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

type events struct {
	mu           sync.Mutex
	connected    []int
	disconnected []int
}

func (e *events) onConnect(p int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connected = append(e.connected, p)
}

func (e *events) onDisconnect(p int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnected = append(e.disconnected, p)
}

func (e *events) snapshot() ([]int, []int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := append([]int(nil), e.connected...)
	d := append([]int(nil), e.disconnected...)
	sort.Ints(c)
	sort.Ints(d)
	return c, d
}

func testTable() *handlers.Table {
	return handlers.MustCompose(handlers.Partial{Name: "test", Handlers: map[string]handlers.Func{
		"test.echo": func(_ context.Context, params *wire.Object) (wire.Value, error) {
			v, _ := params.Get("x")
			return v, nil
		},
		"test.list": func(context.Context, *wire.Object) (wire.Value, error) {
			v, err := wire.Parse([]byte(`[{"k":"a","n":1},{"k":"b","n":2},{"k":"a","n":3}]`))
			return v, err
		},
	}})
}

func newClient(t *testing.T, base, window int, ev *events) *Client {
	t.Helper()
	c := New(testTable(), Options{
		BasePort:     base,
		Window:       window,
		Origin:       testOrigin,
		DialTimeout:  500 * time.Millisecond,
		OnConnect:    ev.onConnect,
		OnDisconnect: ev.onDisconnect,
	})
	t.Cleanup(c.Close)
	return c
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, what)
}

func TestScanConnectsToEveryServer(t *testing.T) {
	base := freeWindow(t, 3)
	s1 := startBridge(t, base)
	s2 := startBridge(t, base+1)
	ev := &events{}
	c := newClient(t, base, 3, ev)

	assert.Equal(t, 2, c.Scan(context.Background()))
	assert.Equal(t, []int{base, base + 1}, c.ConnectedPorts())
	waitFor(t, "first server attached", s1.IsConnected)
	waitFor(t, "second server attached", s2.IsConnected)

	assert.Equal(t, 0, c.Scan(context.Background()))
	assert.Equal(t, []int{base, base + 1}, c.ConnectedPorts())
	connected, _ := ev.snapshot()
	assert.Equal(t, []int{base, base + 1}, connected)
}

func TestRequestsRoundTripThroughServer(t *testing.T) {
	base := freeWindow(t, 1)
	s := startBridge(t, base)
	c := newClient(t, base, 1, &events{})
	require.Equal(t, 1, c.Scan(context.Background()))
	waitFor(t, "server attached", s.IsConnected)

	ctx := context.Background()
	params := wire.NewObject()
	params.Set("x", wire.String("hello"))
	got, err := s.Send(ctx, "test.echo", params)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text())

	params = wire.NewObject()
	params.Set("filter", parse(t, `{"k":"a"}`))
	params.Set("fields", wire.Strings("n"))
	got, err = s.Send(ctx, "test.list", params)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"n":1},{"n":3}],"_availableFields":["k","n"]}`, encode(t, got))

	_, err = s.Send(ctx, "test.missing", nil)
	require.ErrorIs(t, err, bridge.ErrRemote)
	assert.Equal(t, UnknownMethodMessage("test.missing"), err.Error())
}

func TestServerLossDropsPort(t *testing.T) {
	base := freeWindow(t, 2)
	s1 := startBridge(t, base)
	startBridge(t, base+1)
	ev := &events{}
	c := newClient(t, base, 2, ev)
	require.Equal(t, 2, c.Scan(context.Background()))
	waitFor(t, "first server attached", s1.IsConnected)

	require.NoError(t, s1.Stop(context.Background()))
	waitFor(t, "port dropped", func() bool { return len(c.ConnectedPorts()) == 1 })
	assert.Equal(t, []int{base + 1}, c.ConnectedPorts())
	_, disconnected := ev.snapshot()
	assert.Equal(t, []int{base}, disconnected)
}

func TestRescanPicksUpLateServer(t *testing.T) {
	base := freeWindow(t, 2)
	c := newClient(t, base, 2, &events{})
	assert.Equal(t, 0, c.Scan(context.Background()))
	assert.Empty(t, c.ConnectedPorts())

	s := startBridge(t, base+1)
	assert.Equal(t, 1, c.Scan(context.Background()))
	assert.Equal(t, []int{base + 1}, c.ConnectedPorts())
	waitFor(t, "server attached", s.IsConnected)
}

func TestDisconnectClearsEverything(t *testing.T) {
	base := freeWindow(t, 2)
	s1 := startBridge(t, base)
	s2 := startBridge(t, base+1)
	ev := &events{}
	c := newClient(t, base, 2, ev)
	require.Equal(t, 2, c.Scan(context.Background()))
	waitFor(t, "servers attached", func() bool { return s1.IsConnected() && s2.IsConnected() })

	c.Disconnect()
	assert.Empty(t, c.ConnectedPorts())
	waitFor(t, "servers detached", func() bool { return !s1.IsConnected() && !s2.IsConnected() })
	_, disconnected := ev.snapshot()
	assert.Equal(t, []int{base, base + 1}, disconnected)

	c.Disconnect()
	assert.Empty(t, c.ConnectedPorts())
}

func TestRunStopsWithContext(t *testing.T) {
	base := freeWindow(t, 1)
	s := startBridge(t, base)
	c := newClient(t, base, 1, &events{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	waitFor(t, "server attached", s.IsConnected)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestClosedClientDoesNotScan(t *testing.T) {
	base := freeWindow(t, 1)
	startBridge(t, base)
	c := New(testTable(), Options{BasePort: base, Window: 1, Origin: testOrigin})
	c.Close()
	assert.Equal(t, 0, c.Scan(context.Background()))
	assert.Empty(t, c.ConnectedPorts())
}

func TestDefaultConfigsConnect(t *testing.T) {
	var sc config.ServerConfig
	sc.SetDefaults()
	var ac config.AgentConfig
	ac.SetDefaults()

	base := freeWindow(t, 1)
	s := bridge.New(bridge.Options{
		Host:           sc.Host,
		Port:           base,
		Timeout:        sc.RequestTimeout,
		AllowedOrigins: sc.AllowedOrigins,
		AllowAnyOrigin: sc.AllowAnyOrigin,
		PingInterval:   sc.PingInterval,
	})
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	c := New(testTable(), Options{
		Host:        ac.Host,
		BasePort:    base,
		Window:      1,
		Origin:      ac.Origin,
		DialTimeout: ac.DialTimeout,
	})
	t.Cleanup(c.Close)
	require.Equal(t, 1, c.Scan(context.Background()), "origin %q refused", ac.Origin)
	waitFor(t, "server attached", s.IsConnected)
}

func TestFailedWriteDropsPort(t *testing.T) {
	base := freeWindow(t, 1)
	startBridge(t, base)
	entered := make(chan struct{})
	release := make(chan struct{})
	table := handlers.MustCompose(handlers.Partial{Name: "test", Handlers: map[string]handlers.Func{
		"test.block": func(context.Context, *wire.Object) (wire.Value, error) {
			close(entered)
			<-release
			return wire.String("late"), nil
		},
	}})
	ev := &events{}
	c := New(table, Options{
		BasePort:     base,
		Window:       1,
		Origin:       testOrigin,
		DialTimeout:  500 * time.Millisecond,
		OnConnect:    ev.onConnect,
		OnDisconnect: ev.onDisconnect,
	})
	t.Cleanup(c.Close)

	ws, err := c.dial(context.Background(), base)
	require.NoError(t, err)
	cn := &conn{port: base, ws: ws}
	c.mu.Lock()
	c.conns[base] = cn
	c.mu.Unlock()
	require.Equal(t, []int{base}, c.ConnectedPorts())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.respond(cn, []byte(`{"id":"1","method":"test.block","params":{}}`))
	}()
	<-entered
	// The socket dies while the handler is still running.
	_ = ws.CloseNow()
	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("respond did not return")
	}

	assert.Empty(t, c.ConnectedPorts())
	_, disconnected := ev.snapshot()
	assert.Equal(t, []int{base}, disconnected)

	c.drop(cn, errors.New("closed again"))
	_, disconnected = ev.snapshot()
	assert.Equal(t, []int{base}, disconnected)
}

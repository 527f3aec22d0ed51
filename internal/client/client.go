// Package client runs inside the editor process. It finds bridge servers on
// the local port window, keeps a connection to each, and answers their
// requests through a handler table.
package client

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gaspardpetit/edabridge/internal/handlers"
	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/metrics"
	"github.com/gaspardpetit/edabridge/internal/reconnect"
	"github.com/gaspardpetit/edabridge/internal/wire"
)

// Options configures a Client.
type Options struct {
	Host     string
	BasePort int
	Window   int
	Path     string
	// Origin is sent on the handshake. Bridge servers reject connections
	// whose origin they do not allow.
	Origin       string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// ScanInterval is the rescan period while at least one server is
	// connected. Without any connection Run backs off instead.
	ScanInterval time.Duration
	ReadLimit    int64

	OnConnect    func(port int)
	OnDisconnect func(port int)
}

func (o *Options) setDefaults() {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.BasePort <= 0 {
		o.BasePort = 15168
	}
	if o.Window <= 0 {
		o.Window = 20
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 2 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ScanInterval <= 0 {
		o.ScanInterval = 10 * time.Second
	}
	if o.ReadLimit == 0 {
		o.ReadLimit = -1
	}
}

// Client holds one connection per reachable bridge server.
type Client struct {
	opts       Options
	id         string
	dispatcher *Dispatcher
	log        zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	scanMu sync.Mutex

	mu     sync.Mutex
	conns  map[int]*conn
	closed bool
}

type conn struct {
	port int
	ws   *websocket.Conn
}

// New returns a client answering requests from table.
func New(table *handlers.Table, opts Options) *Client {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		opts:       opts,
		id:         uuid.NewString(),
		dispatcher: NewDispatcher(table),
		log:        logx.Component("client"),
		ctx:        ctx,
		cancel:     cancel,
		conns:      map[int]*conn{},
	}
}

// ID identifies this client instance to the servers it connects to.
func (c *Client) ID() string { return c.id }

// Scan tries every port of the window that is not already connected and
// returns how many new connections it made. Ports that refuse are skipped
// silently.
func (c *Client) Scan(ctx context.Context) int {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	added := 0
	last := c.opts.BasePort + c.opts.Window
	for port := c.opts.BasePort; port < last; port++ {
		if ctx.Err() != nil || c.isClosed() {
			break
		}
		if c.has(port) {
			continue
		}
		ws, err := c.dial(ctx, port)
		if err != nil {
			c.log.Trace().Err(err).Int("port", port).Msg("no bridge")
			continue
		}
		cn := &conn{port: port, ws: ws}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = ws.CloseNow()
			break
		}
		c.conns[port] = cn
		n := len(c.conns)
		c.wg.Add(1)
		c.mu.Unlock()

		metrics.SetConnectedPorts(n)
		c.log.Info().Int("port", port).Msg("connected to bridge server")
		if c.opts.OnConnect != nil {
			c.opts.OnConnect(port)
		}
		added++
		go c.serve(cn)
	}
	return added
}

// Run scans until ctx is done. While nothing is connected it retries on the
// reconnect schedule; once connected it rescans every ScanInterval to pick
// up servers started later.
func (c *Client) Run(ctx context.Context) error {
	return reconnect.Loop(ctx, c.opts.ScanInterval, func(ctx context.Context) bool {
		c.Scan(ctx)
		return len(c.ConnectedPorts()) > 0
	})
}

// ConnectedPorts lists the ports with an open connection, ascending.
func (c *Client) ConnectedPorts() []int {
	c.mu.Lock()
	ports := make([]int, 0, len(c.conns))
	for p := range c.conns {
		ports = append(ports, p)
	}
	c.mu.Unlock()
	sort.Ints(ports)
	return ports
}

// Disconnect closes every connection and empties the connected set. Close
// failures are ignored.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conns := c.conns
	c.conns = map[int]*conn{}
	c.mu.Unlock()
	if len(conns) == 0 {
		return
	}
	metrics.SetConnectedPorts(0)

	var wg sync.WaitGroup
	for _, cn := range conns {
		wg.Add(1)
		go func(cn *conn) {
			defer wg.Done()
			_ = cn.ws.Close(websocket.StatusNormalClosure, "client disconnect")
		}(cn)
	}
	wg.Wait()
	for _, cn := range conns {
		c.log.Info().Int("port", cn.port).Msg("disconnected from bridge server")
		if c.opts.OnDisconnect != nil {
			c.opts.OnDisconnect(cn.port)
		}
	}
}

// Close disconnects and waits for in-flight handlers to return. The client
// cannot be reused.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Disconnect()
	c.cancel()
	c.wg.Wait()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) has(port int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.conns[port]
	return ok
}

func (c *Client) dial(ctx context.Context, port int) (*websocket.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()

	h := http.Header{}
	h.Set(wire.ClientIDHeader, c.id)
	if c.opts.Origin != "" {
		h.Set("Origin", c.opts.Origin)
	}
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(c.opts.Host, strconv.Itoa(port)), Path: c.opts.Path}
	ws, _, err := websocket.Dial(dctx, u.String(), &websocket.DialOptions{HTTPHeader: h})
	if err != nil {
		return nil, err
	}
	ws.SetReadLimit(c.opts.ReadLimit)
	return ws, nil
}

func (c *Client) serve(cn *conn) {
	defer c.wg.Done()
	for {
		_, data, err := cn.ws.Read(c.ctx)
		if err != nil {
			c.drop(cn, err)
			return
		}
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.respond(cn, data)
		}()
	}
}

func (c *Client) respond(cn *conn, data []byte) {
	resp, ok := c.dispatcher.Handle(c.ctx, data)
	if !ok {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		b, _ = json.Marshal(wire.Failure(resp.ID, "encode result: "+err.Error()))
	}
	wctx, cancel := context.WithTimeout(c.ctx, c.opts.WriteTimeout)
	defer cancel()
	if err := cn.ws.Write(wctx, websocket.MessageText, b); err != nil {
		c.log.Warn().Err(err).Int("port", cn.port).Str("id", resp.ID).Msg("send failed, dropping connection")
		c.drop(cn, err)
	}
}

// drop removes cn from the connected set if it is still the connection
// tracked for its port.
func (c *Client) drop(cn *conn, reason error) {
	c.mu.Lock()
	cur, ok := c.conns[cn.port]
	removed := ok && cur == cn
	if removed {
		delete(c.conns, cn.port)
	}
	n := len(c.conns)
	c.mu.Unlock()

	_ = cn.ws.CloseNow()
	if !removed {
		return
	}
	metrics.SetConnectedPorts(n)
	c.log.Info().Int("port", cn.port).AnErr("reason", reason).Msg("lost bridge server")
	if c.opts.OnDisconnect != nil {
		c.opts.OnDisconnect(cn.port)
	}
}

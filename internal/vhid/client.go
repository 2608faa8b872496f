package vhid

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/fsm"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/hidreport"
)

// ErrVersionMismatch reports a confirmed protocol-version mismatch with the
// driver daemon. Unlike timing noise it is fatal: the daemon is binary
// incompatible with this client.
var ErrVersionMismatch = errors.New("driver daemon protocol version mismatch")

// ErrDevicesNotReady reports that neither virtual device became ready before
// the handshake deadline.
var ErrDevicesNotReady = errors.New("no virtual device became ready")

// Options tunes one client session. Zero fields take defaults; the function
// fields exist so tests can inject fake discovery, transport, and clocks.
type Options struct {
	ServerSocketDir string
	ClientSocketDir string

	ReceiveTimeout    time.Duration
	HeartbeatInterval time.Duration
	HeartbeatDeadline time.Duration
	SettleDelay       time.Duration
	ReadyDeadline     time.Duration
	MonitorInterval   time.Duration

	KeyboardParams hidreport.KeyboardParameters

	Discover func() (string, error)
	Dial     func(serverPath, clientPath string) (Conn, error)
	Sleep    func(time.Duration)
	Now      func() time.Time
}

func (o *Options) fillDefaults() {
	if o.ServerSocketDir == "" {
		o.ServerSocketDir = DefaultServerSocketDir
	}
	if o.ClientSocketDir == "" {
		o.ClientSocketDir = DefaultClientSocketDir
	}
	if o.ReceiveTimeout <= 0 {
		o.ReceiveTimeout = 200 * time.Millisecond
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = 3 * time.Second
	}
	if o.HeartbeatDeadline <= 0 {
		o.HeartbeatDeadline = 5 * time.Second
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 100 * time.Millisecond
	}
	if o.ReadyDeadline <= 0 {
		o.ReadyDeadline = 10 * time.Second
	}
	if o.MonitorInterval <= 0 {
		o.MonitorInterval = 3 * time.Second
	}
	if o.KeyboardParams == (hidreport.KeyboardParameters{}) {
		o.KeyboardParams = hidreport.DefaultKeyboardParameters()
	}
	if o.Discover == nil {
		dir := o.ServerSocketDir
		o.Discover = func() (string, error) { return DiscoverServerSocket(dir) }
	}
	if o.Dial == nil {
		o.Dial = dialUnixgram
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Status is one point-in-time snapshot of the session state.
type Status struct {
	State         fsm.State
	Connected     bool
	KeyboardReady bool
	PointingReady bool
	ServerSocket  string
}

// Client owns one session with the driver daemon. Create with New, bring up
// with Initialize, tear down with Shutdown. All methods are safe for
// concurrent use.
type Client struct {
	logger *slog.Logger
	opts   Options

	mu            sync.Mutex
	state         fsm.State
	conn          Conn
	serverPath    string
	connected     bool
	keyboardReady bool
	pointingReady bool
	stop          chan struct{}
}

// New constructs a client; no connection is attempted until Initialize.
func New(logger *slog.Logger, opts Options) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	opts.fillDefaults()
	return &Client{
		logger: logger.With("component", "vhid"),
		opts:   opts,
		state:  fsm.StateDisconnected,
	}
}

// Initialize discovers the daemon socket, connects, starts heartbeats, and
// runs the device-ready handshake. On success the heartbeat and liveness
// timers run until Shutdown. Only discovery failure and a handshake in which
// neither device becomes ready are fatal; a single missing device degrades
// that device only.
func (c *Client) Initialize() error {
	c.Shutdown()

	c.transition(fsm.EventDiscover)
	serverPath, err := c.opts.Discover()
	if err != nil {
		c.transition(fsm.EventFail)
		return fmt.Errorf("discover driver daemon: %w", err)
	}

	clientPath := filepath.Join(
		c.opts.ClientSocketDir,
		fmt.Sprintf("%d-%x.sock", os.Getpid(), c.opts.Now().UnixNano()),
	)
	conn, err := c.opts.Dial(serverPath, clientPath)
	if err != nil {
		c.transition(fsm.EventFail)
		return fmt.Errorf("connect driver daemon: %w", err)
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.serverPath = serverPath
	c.connected = true
	c.stop = stop
	c.mu.Unlock()
	c.transition(fsm.EventConnect)

	if err := conn.Send(EncodeHeartbeat(c.opts.HeartbeatDeadline)); err != nil {
		c.logger.Warn("initial heartbeat send failed", "error", err.Error())
	}

	// The heartbeat must repeat while the handshake runs: the handshake
	// deadline exceeds the advertised heartbeat deadline, so a slow
	// handshake would otherwise let the daemon expire this client mid-way.
	go c.heartbeatLoop(conn, stop)

	c.opts.Sleep(c.opts.SettleDelay)

	if err := c.awaitDevices(conn); err != nil {
		c.Shutdown()
		return err
	}
	c.transition(fsm.EventDevicesReady)

	go c.monitorLoop(stop)

	c.logger.Info("session ready",
		"server_socket", serverPath,
		"keyboard_ready", c.KeyboardReady(),
		"pointing_ready", c.PointingReady(),
	)
	return nil
}

// awaitDevices sends both init requests and polls for readiness responses
// until both devices are ready or the wall-clock deadline elapses. Init
// requests are idempotent, so each receive timeout resends whichever request
// has not been acknowledged yet.
func (c *Client) awaitDevices(conn Conn) error {
	keyboardInit := EncodeRequest(
		RequestKeyboardInitialize,
		hidreport.EncodeKeyboardParameters(c.opts.KeyboardParams),
	)
	pointingInit := EncodeRequest(RequestPointingInitialize, nil)

	if err := conn.Send(keyboardInit); err != nil {
		c.logger.Warn("keyboard init send failed", "error", err.Error())
	}
	if err := conn.Send(pointingInit); err != nil {
		c.logger.Warn("pointing init send failed", "error", err.Error())
	}

	deadline := c.opts.Now().Add(c.opts.ReadyDeadline)
	buf := make([]byte, 512)

	for c.opts.Now().Before(deadline) {
		if c.KeyboardReady() && c.PointingReady() {
			return nil
		}

		n, err := conn.Receive(buf, c.opts.ReceiveTimeout)
		if err != nil {
			if !isTimeout(err) {
				return fmt.Errorf("receive handshake response: %w", err)
			}
			if !c.KeyboardReady() {
				_ = conn.Send(keyboardInit)
			}
			if !c.PointingReady() {
				_ = conn.Send(pointingInit)
			}
			continue
		}

		frame, parseErr := ParseFrame(buf[:n])
		if parseErr != nil {
			c.logger.Debug("discarding unparseable datagram", "error", parseErr.Error())
			continue
		}
		if err := c.handleFrame(frame); err != nil {
			return err
		}
	}

	if c.KeyboardReady() && c.PointingReady() {
		return nil
	}
	if !c.KeyboardReady() && !c.PointingReady() {
		return ErrDevicesNotReady
	}
	c.logger.Warn("continuing with one device not ready",
		"keyboard_ready", c.KeyboardReady(),
		"pointing_ready", c.PointingReady(),
	)
	return nil
}

// handleFrame applies one inbound frame to the session state. Only a
// confirmed version mismatch returns an error.
func (c *Client) handleFrame(frame Frame) error {
	if frame.Heartbeat {
		c.logger.Debug("heartbeat echo")
		return nil
	}

	switch frame.Response {
	case ResponseDriverActivated:
		c.logger.Debug("driver activated")
	case ResponseDriverConnected:
		c.logger.Debug("driver connected")
	case ResponseVersionStatus:
		// A version-status frame arrives routinely; only a true payload
		// byte means the daemon confirmed a mismatch.
		if frame.HasValue && frame.Value != 0 {
			return ErrVersionMismatch
		}
	case ResponseKeyboardReady:
		ready := frame.HasValue && frame.Value != 0
		c.mu.Lock()
		c.keyboardReady = ready
		c.mu.Unlock()
	case ResponsePointingReady:
		ready := frame.HasValue && frame.Value != 0
		c.mu.Lock()
		c.pointingReady = ready
		c.mu.Unlock()
	default:
		c.logger.Debug("unknown response type", "type", uint8(frame.Response))
	}
	return nil
}

// heartbeatLoop resends the heartbeat frame on a fixed interval for the
// session's lifetime, handshake included. The daemon is assumed to tear down
// client state once the advertised deadline passes without one, so the
// deadline must exceed the interval with margin.
func (c *Client) heartbeatLoop(conn Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()

	frame := EncodeHeartbeat(c.opts.HeartbeatDeadline)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.Send(frame); err != nil {
				c.logger.Debug("heartbeat send failed", "error", err.Error())
			}
		}
	}
}

// monitorLoop re-runs discovery on a fixed interval. When the previously
// discovered server socket is gone or replaced, the daemon restarted and all
// session state is cleared. Detection only: reconnecting requires the owner
// to call Initialize again.
func (c *Client) monitorLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.opts.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.checkLiveness()
		}
	}
}

func (c *Client) checkLiveness() {
	path, err := c.opts.Discover()

	c.mu.Lock()
	alive := err == nil && path == c.serverPath
	wasConnected := c.connected
	if !alive && wasConnected {
		c.connected = false
		c.keyboardReady = false
		c.pointingReady = false
		c.state = fsm.StateDisconnected
	}
	c.mu.Unlock()

	if !alive && wasConnected {
		c.logger.Warn("driver daemon socket vanished, assuming restart")
	}
}

// PostPointingReport submits one pointing report. The result reports only
// that the kernel accepted the frame for sending; there is no per-report
// acknowledgement from the daemon.
func (c *Client) PostPointingReport(report hidreport.PointingReport) bool {
	c.mu.Lock()
	conn, ready := c.conn, c.pointingReady
	c.mu.Unlock()
	if conn == nil || !ready {
		return false
	}

	frame := EncodeRequest(RequestPostPointingReport, hidreport.EncodePointingReport(report))
	return conn.Send(frame) == nil
}

// PostKeyboardReport submits one keyboard report, subject to keyboard readiness.
func (c *Client) PostKeyboardReport(report hidreport.KeyboardReport) bool {
	c.mu.Lock()
	conn, ready := c.conn, c.keyboardReady
	c.mu.Unlock()
	if conn == nil || !ready {
		return false
	}

	frame := EncodeRequest(RequestPostKeyboardReport, hidreport.EncodeKeyboardReport(report))
	return conn.Send(frame) == nil
}

// TypeKey posts a key-down report for keycode with the given modifiers
// followed by the release-everything report.
func (c *Client) TypeKey(keycode uint16, modifiers hidreport.ModifierSet) bool {
	down := hidreport.NewKeyboardReport()
	down.Modifiers = modifiers
	down.InsertKey(keycode)

	if !c.PostKeyboardReport(down) {
		return false
	}
	return c.PostKeyboardReport(hidreport.NewKeyboardReport())
}

// Connected reports whether the session believes the daemon is reachable.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// KeyboardReady reports virtual keyboard readiness.
func (c *Client) KeyboardReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyboardReady
}

// PointingReady reports virtual pointing-device readiness.
func (c *Client) PointingReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointingReady
}

// Status returns a snapshot of the session state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:         c.state,
		Connected:     c.connected,
		KeyboardReady: c.keyboardReady,
		PointingReady: c.pointingReady,
		ServerSocket:  c.serverPath,
	}
}

// Shutdown sends best-effort terminate requests, cancels both timers, and
// closes the socket. Idempotent; safe to call on a client that never
// initialized.
func (c *Client) Shutdown() {
	c.mu.Lock()
	conn, stop := c.conn, c.stop
	c.conn = nil
	c.stop = nil
	c.serverPath = ""
	c.connected = false
	c.keyboardReady = false
	c.pointingReady = false
	c.state = fsm.StateDisconnected
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if conn != nil {
		_ = conn.Send(EncodeRequest(RequestKeyboardTerminate, nil))
		_ = conn.Send(EncodeRequest(RequestPointingTerminate, nil))
		_ = conn.Close()
	}
}

// transition applies one lifecycle event; invalid transitions are logged and
// otherwise ignored.
func (c *Client) transition(event fsm.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.logger.Debug("lifecycle transition rejected", "error", err.Error())
		return
	}
	c.state = next
}

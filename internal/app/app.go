// Package app wires CLI commands to the injection daemon runtime.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/cli"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/config"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/cursor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/dispatch"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/doctor"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/gesture"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/layout"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/logging"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/version"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/vhid"
)

const statusTimeout = 2 * time.Second

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("mirroirhidd"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("mirroirhidd"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	socketPath := parsed.SocketPath
	if socketPath == "" {
		socketPath = cfgLoaded.Config.Dispatch.SocketPath
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"socket", socketPath,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(socketPath)
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, socketPath, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandStatus forwards a status request to a running daemon and prints the
// driver session state.
func (r Runner) commandStatus(socketPath string) int {
	resp, err := sendRequest(socketPath, dispatch.Request{Action: dispatch.ActionStatus})
	if err != nil {
		if isDaemonGone(err) {
			fmt.Fprintln(r.Stdout, "not running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !resp.OK {
		fmt.Fprintf(r.Stderr, "error: %s\n", resp.Error)
		return 1
	}
	if resp.Status == nil {
		fmt.Fprintln(r.Stderr, "error: daemon returned no status payload")
		return 1
	}

	fmt.Fprintf(r.Stdout, "state: %s\n", resp.Status.State)
	fmt.Fprintf(r.Stdout, "connected: %t\n", resp.Status.Connected)
	fmt.Fprintf(r.Stdout, "keyboard_ready: %t\n", resp.Status.KeyboardReady)
	fmt.Fprintf(r.Stdout, "pointing_ready: %t\n", resp.Status.PointingReady)
	if resp.Status.ServerSocket != "" {
		fmt.Fprintf(r.Stdout, "server_socket: %s\n", resp.Status.ServerSocket)
	}
	return 0
}

// commandRun brings up the driver session and serves the command socket until
// the context is cancelled. A driver that is not ready at startup does not
// abort the daemon: the session is retried in the background while requests
// are answered with not-ready errors.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, socketPath string, logger *slog.Logger) int {
	listener, err := dispatch.Acquire(socketPath, cfg.Dispatch.SocketGroup)
	if err != nil {
		if errors.Is(err, dispatch.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: another daemon is already serving %s\n", socketPath)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	client := vhid.New(logger, driverOptions(cfg.Driver))
	defer client.Shutdown()

	if err := client.Initialize(); err != nil {
		if errors.Is(err, vhid.ErrVersionMismatch) {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		logger.Warn("driver session not ready at startup; retrying in background", "error", err.Error())
	}
	go maintainSession(ctx, client, cfg.Driver.MonitorInterval, logger)

	table, err := resolveLayout(cfg.Layout)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	synth := gesture.New(logger, client, cursor.NewSystem(), table, timingFromConfig(cfg.Gesture))
	dispatcher := dispatch.NewDispatcher(logger, synth, client.Status)

	logger.Info("daemon ready", "socket", socketPath)
	if err := dispatch.Serve(ctx, listener, dispatcher, logger); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// driverSession is the slice of the driver client the maintenance loop needs.
type driverSession interface {
	Connected() bool
	Initialize() error
}

// maintainSession re-runs Initialize whenever the driver session is down:
// at startup when the driver daemon was absent, and mid-run after the
// liveness monitor observes a daemon restart and clears the connected flag.
// The wire client only detects loss, so reconnecting is this loop's job.
// A confirmed version mismatch is permanent and stops the loop.
func maintainSession(ctx context.Context, session driverSession, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if session.Connected() {
			continue
		}

		err := session.Initialize()
		if err == nil {
			logger.Info("driver session established")
			continue
		}
		if errors.Is(err, vhid.ErrVersionMismatch) {
			logger.Error("driver protocol version mismatch; giving up", "error", err.Error())
			return
		}
		logger.Warn("driver session retry failed", "error", err.Error())
	}
}

func resolveLayout(cfg config.LayoutConfig) (layout.Table, error) {
	if strings.TrimSpace(cfg.TablePath) == "" {
		return layout.USANSI(), nil
	}
	return layout.Load(cfg.TablePath)
}

func driverOptions(cfg config.DriverConfig) vhid.Options {
	return vhid.Options{
		ServerSocketDir:   cfg.ServerSocketDir,
		ClientSocketDir:   cfg.ClientSocketDir,
		ReceiveTimeout:    cfg.ReceiveTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		HeartbeatDeadline: cfg.HeartbeatDeadline,
		SettleDelay:       cfg.SettleDelay,
		ReadyDeadline:     cfg.ReadyDeadline,
		MonitorInterval:   cfg.MonitorInterval,
	}
}

func timingFromConfig(cfg config.GestureConfig) gesture.Timing {
	timing := gesture.DefaultTiming()
	timing.TapHold = cfg.TapHold
	timing.LongPressDefault = cfg.LongPressDefault
	timing.DoubleTapHold = cfg.DoubleTapHold
	timing.DoubleTapGap = cfg.DoubleTapGap
	timing.DragInitialHold = cfg.DragInitialHold
	timing.DragDefaultDuration = cfg.DragDefaultDuration
	timing.DragSteps = cfg.DragSteps
	timing.SwipeDefaultDuration = cfg.SwipeDefaultDuration
	timing.SwipeSteps = cfg.SwipeSteps
	timing.SwipeWheelScale = cfg.SwipeWheelScale
	timing.KeyDelay = cfg.KeyDelay
	timing.DeadKeyDelay = cfg.DeadKeyDelay
	return timing
}

// sendRequest performs one newline-JSON round trip against the command socket.
func sendRequest(socketPath string, req dispatch.Request) (dispatch.Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, statusTimeout)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("%w: %v", errDaemonGone, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(statusTimeout))

	payload, err := json.Marshal(req)
	if err != nil {
		return dispatch.Response{}, err
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return dispatch.Response{}, fmt.Errorf("write request: %w", err)
	}

	var resp dispatch.Response
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&resp); err != nil {
		return dispatch.Response{}, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

var errDaemonGone = errors.New("daemon not reachable")

func isDaemonGone(err error) bool {
	return errors.Is(err, errDaemonGone)
}

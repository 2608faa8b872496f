package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
)

// Serve accepts dispatch clients until context cancellation or listener
// close. Connections are served strictly one at a time: every request on an
// accepted connection is handled, in arrival order, before the next accept.
// No two gesture operations ever overlap.
func Serve(ctx context.Context, listener net.Listener, dispatcher *Dispatcher, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "dispatch")

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept dispatch connection: %w", err)
		}
		serveConn(conn, dispatcher, logger)
	}
}

// serveConn drains one client: request lines are answered in order until
// EOF, a read failure, or a write failure that signals the peer is gone.
func serveConn(conn net.Conn, dispatcher *Dispatcher, logger *slog.Logger) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, readErr := reader.ReadBytes('\n')

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			resp := dispatcher.Handle(trimmed)
			if err := json.NewEncoder(conn).Encode(resp); err != nil {
				if isPeerGone(err) {
					logger.Info("client disconnected mid-write")
					return
				}
				logger.Warn("write response failed", "error", err.Error())
			}
		}

		if readErr != nil {
			return
		}
	}
}

// isPeerGone reports write failures that mean the client disconnected.
func isPeerGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed)
}

package vhid

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Conn is one connected datagram socket pair with the driver daemon.
//
// Connecting a datagram socket only fixes the default send destination; the
// platform does not filter inbound datagrams by peer, so Receive must accept
// whatever arrives on the client socket.
type Conn interface {
	Send(frame []byte) error
	Receive(buf []byte, timeout time.Duration) (int, error)
	Close() error
}

// unixgramConn adapts a net.UnixConn to the Conn contract and owns the
// client-side socket file.
type unixgramConn struct {
	conn       *net.UnixConn
	clientPath string
}

// sendDeadline bounds each report submission so a wedged daemon socket
// surfaces as a failed send rather than a stuck caller.
const sendDeadline = 100 * time.Millisecond

// dialUnixgram binds a client datagram socket at clientPath and connects it
// to the daemon socket at serverPath.
func dialUnixgram(serverPath, clientPath string) (Conn, error) {
	if err := os.MkdirAll(filepath.Dir(clientPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure client socket dir: %w", err)
	}

	laddr := &net.UnixAddr{Name: clientPath, Net: "unixgram"}
	raddr := &net.UnixAddr{Name: serverPath, Net: "unixgram"}
	conn, err := net.DialUnix("unixgram", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("connect datagram socket %s: %w", serverPath, err)
	}
	_ = os.Chmod(clientPath, 0o600)

	return &unixgramConn{conn: conn, clientPath: clientPath}, nil
}

func (c *unixgramConn) Send(frame []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(sendDeadline)); err != nil {
		return err
	}
	_, err := c.conn.Write(frame)
	return err
}

func (c *unixgramConn) Receive(buf []byte, timeout time.Duration) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, _, err := c.conn.ReadFromUnix(buf)
	return n, err
}

func (c *unixgramConn) Close() error {
	err := c.conn.Close()
	_ = os.Remove(c.clientPath)
	return err
}

// isTimeout reports whether a receive failed only because the socket timeout
// elapsed.
func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

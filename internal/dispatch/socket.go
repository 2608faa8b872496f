package dispatch

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultSocketPath is the fixed dispatch socket location.
const DefaultSocketPath = "/var/run/mirroirhidd.sock"

// DefaultSocketGroup limits socket access to local interactive users so the
// privileged daemon can serve an unprivileged caller.
const DefaultSocketGroup = "staff"

// acceptBacklog keeps a second connection attempt queued while the first
// client is being served.
const acceptBacklog = 4

const probeTimeout = 200 * time.Millisecond

var ErrAlreadyRunning = errors.New("dispatch socket already has a live owner")

// Acquire binds the dispatch listener at path, reclaiming a stale socket
// file when no live owner answers it. An empty group skips the ownership
// change.
func Acquire(path, group string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dispatch socket dir: %w", err)
	}

	listener, err := listenUnix(path)
	if err != nil {
		if !errors.Is(err, unix.EADDRINUSE) {
			return nil, err
		}
		if probe(path) {
			return nil, ErrAlreadyRunning
		}
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale socket %s: %w", path, removeErr)
		}
		listener, err = listenUnix(path)
		if err != nil {
			return nil, err
		}
	}

	if err := restrict(path, group); err != nil {
		_ = listener.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return listener, nil
}

// listenUnix builds the listener by hand so the accept backlog stays small.
func listenUnix(path string) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("create dispatch socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bind dispatch socket %s: %w", path, err)
	}
	if err := unix.Listen(fd, acceptBacklog); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("listen dispatch socket %s: %w", path, err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set dispatch socket nonblocking: %w", err)
	}

	file := os.NewFile(uintptr(fd), path)
	defer file.Close()

	listener, err := net.FileListener(file)
	if err != nil {
		return nil, fmt.Errorf("wrap dispatch socket: %w", err)
	}
	return listener, nil
}

// restrict narrows the socket permission bits and hands group ownership to
// the configured local-users group.
func restrict(path, group string) error {
	if err := unix.Chmod(path, 0o660); err != nil {
		return fmt.Errorf("chmod dispatch socket: %w", err)
	}
	if group == "" {
		return nil
	}

	grp, err := user.LookupGroup(group)
	if err != nil {
		return fmt.Errorf("lookup socket group %q: %w", group, err)
	}
	gid, err := strconv.Atoi(grp.Gid)
	if err != nil {
		return fmt.Errorf("parse gid for group %q: %w", group, err)
	}
	if err := unix.Chown(path, -1, gid); err != nil {
		return fmt.Errorf("chown dispatch socket to group %q: %w", group, err)
	}
	return nil
}

// probe reports whether a live server currently answers the socket. A stale
// socket file refuses the connection.
func probe(path string) bool {
	conn, err := net.DialTimeout("unix", path, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Package doctor runs runtime readiness diagnostics for config, sockets, and layout tables.
package doctor

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jfarcand/mirroir-mcp-sub002/internal/config"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/layout"
	"github.com/jfarcand/mirroir-mcp-sub002/internal/vhid"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkRoot())
	checks = append(checks, checkServerSocket(cfg.Config.Driver.ServerSocketDir))
	checks = append(checks, checkDispatchSocket(cfg.Config.Dispatch.SocketPath))
	checks = append(checks, checkLayoutTable(cfg.Config.Layout.TablePath))

	return Report{Checks: checks}
}

// checkRoot verifies the effective uid; the driver daemon socket dir is root-only.
func checkRoot() Check {
	if os.Geteuid() == 0 {
		return Check{Name: "privileges", Pass: true, Message: "running as root"}
	}
	return Check{Name: "privileges", Pass: false, Message: fmt.Sprintf("effective uid %d; driver sockets require root", os.Geteuid())}
}

// checkServerSocket verifies that the driver daemon advertises a server socket.
func checkServerSocket(dir string) Check {
	if _, err := os.Stat(dir); err != nil {
		return Check{Name: "driver.socket_dir", Pass: false, Message: fmt.Sprintf("stat %s: %v", dir, err)}
	}

	path, err := vhid.DiscoverServerSocket(dir)
	if err != nil {
		return Check{Name: "driver.socket_dir", Pass: false, Message: err.Error()}
	}
	return Check{Name: "driver.socket_dir", Pass: true, Message: fmt.Sprintf("daemon socket %s", path)}
}

// checkDispatchSocket verifies the command socket path is either free or owned
// by a live daemon.
func checkDispatchSocket(path string) Check {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Check{Name: "dispatch.socket", Pass: true, Message: fmt.Sprintf("%s is free", path)}
		}
		return Check{Name: "dispatch.socket", Pass: false, Message: fmt.Sprintf("stat %s: %v", path, err)}
	}

	conn, err := net.DialTimeout("unix", path, 200*time.Millisecond)
	if err != nil {
		return Check{Name: "dispatch.socket", Pass: false, Message: fmt.Sprintf("%s exists but no daemon answers; remove it or start the daemon", path)}
	}
	conn.Close()
	return Check{Name: "dispatch.socket", Pass: true, Message: fmt.Sprintf("daemon answering at %s", path)}
}

// checkLayoutTable loads the configured table, or reports the builtin one.
func checkLayoutTable(path string) Check {
	if strings.TrimSpace(path) == "" {
		table := layout.USANSI()
		return Check{Name: "layout.table", Pass: true, Message: fmt.Sprintf("builtin US ANSI table (%d characters)", len(table))}
	}

	table, err := layout.Load(path)
	if err != nil {
		return Check{Name: "layout.table", Pass: false, Message: err.Error()}
	}
	return Check{Name: "layout.table", Pass: true, Message: fmt.Sprintf("loaded %q (%d characters)", path, len(table))}
}

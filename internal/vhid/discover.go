package vhid

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultServerSocketDir is the root-only directory where the driver daemon
// publishes its listening datagram sockets.
const DefaultServerSocketDir = "/Library/Application Support/org.pqrs/tmp/rootonly/vhidd_server"

// DefaultClientSocketDir is the sibling directory where clients bind their
// own uniquely named datagram sockets.
const DefaultClientSocketDir = "/Library/Application Support/org.pqrs/tmp/rootonly/vhidd_client"

// DiscoverServerSocket lists dir and returns the lexicographically greatest
// socket filename. The daemon names sockets after a hex timestamp, so
// lexicographic order is chronological order and the greatest entry belongs
// to the newest daemon instance.
func DiscoverServerSocket(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list daemon socket dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sock") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no daemon socket found in %s", dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

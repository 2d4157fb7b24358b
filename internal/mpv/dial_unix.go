//go:build !windows

package mpv

import (
	"net"
	"time"
)

// dial connects to the player's IPC endpoint.
// On Unix systems, mpv exposes a Unix domain socket.
func dial(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}

//go:build windows

package mpv

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// dial connects to the player's IPC endpoint.
// On Windows, mpv exposes a named pipe (--input-ipc-server=\\.\pipe\...).
func dial(path string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(path, &timeout)
}

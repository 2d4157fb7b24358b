package ipc

import (
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate socket/address for the
// daemon's control interface. This is the daemon's own socket, distinct
// from the player socket it observes.
func SocketPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return `\\.\pipe\mpvstatusd`, nil
	case "darwin":
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cacheDir, "mpvstatusd", "mpvstatusd.sock"), nil
	default:
		if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
			return filepath.Join(xdg, "mpvstatusd", "mpvstatusd.sock"), nil
		}
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cacheDir, "mpvstatusd", "mpvstatusd.sock"), nil
	}
}

package ipc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"runtime"
)

// Handler answers control requests from CLI clients.
// The daemon implements this interface.
type Handler interface {
	HandleStatus() StatusData
}

// Daemon is the RPC service exposed to CLI clients.
// Method names become "Daemon.Status" etc.
type Daemon struct {
	handler Handler
}

// Status returns the current daemon status.
func (d *Daemon) Status(_ *Empty, reply *StatusData) error {
	*reply = d.handler.HandleStatus()
	return nil
}

// Server accepts control connections and serves RPC requests.
type Server struct {
	listener  net.Listener
	rpcServer *rpc.Server
	sockPath  string
}

// NewServer creates a control server bound to the platform-appropriate
// socket.
func NewServer(handler Handler) (*Server, error) {
	sockPath, err := SocketPath()
	if err != nil {
		return nil, err
	}
	return NewServerAt(sockPath, handler)
}

// NewServerAt creates a control server bound to an explicit socket path.
func NewServerAt(sockPath string, handler Handler) (*Server, error) {
	// Create parent directory and remove stale socket file (Unix only)
	// Windows named pipes live in a kernel namespace, not the filesystem
	if runtime.GOOS != "windows" {
		if err := os.MkdirAll(filepath.Dir(sockPath), 0755); err != nil {
			return nil, err
		}
		os.Remove(sockPath)
	}

	listener, err := listen(sockPath)
	if err != nil {
		return nil, err
	}

	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Daemon", &Daemon{handler: handler}); err != nil {
		listener.Close()
		return nil, err
	}

	return &Server{
		listener:  listener,
		rpcServer: rpcServer,
		sockPath:  sockPath,
	}, nil
}

// Serve accepts connections until the context is cancelled.
// Requests are processed serially (one at a time).
func (s *Server) Serve(ctx context.Context) error {
	// Close listener and clean up socket when context is done
	go func() {
		<-ctx.Done()
		s.listener.Close()
		if runtime.GOOS != "windows" {
			os.Remove(s.sockPath)
		}
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if we're shutting down
			if ctx.Err() != nil {
				break
			}
			if !errors.Is(err, net.ErrClosed) {
				slog.Warn("control socket accept error", "error", err)
			}
			continue
		}

		// Handle connection serially (blocks until client disconnects)
		s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
	}

	return nil
}

package ipc

import (
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client connects to the daemon's control socket via JSON-RPC.
type Client struct {
	rpc *rpc.Client
}

// Connect establishes a connection to the daemon.
// Returns an error if the daemon is not running.
func Connect() (*Client, error) {
	sockPath, err := SocketPath()
	if err != nil {
		return nil, err
	}
	return ConnectTo(sockPath)
}

// ConnectTo establishes a connection to a daemon at an explicit socket path.
func ConnectTo(sockPath string) (*Client, error) {
	conn, err := dial(sockPath, 2*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: jsonrpc.NewClient(conn)}, nil
}

// Status queries the daemon for its current status.
func (c *Client) Status() (*StatusData, error) {
	var status StatusData
	if err := c.rpc.Call("Daemon.Status", &Empty{}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Close closes the connection to the daemon.
func (c *Client) Close() error {
	return c.rpc.Close()
}

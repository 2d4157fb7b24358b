package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"time"
)

// ErrSessionLost indicates the connection to the player ended: either a
// clean EOF when the player exits or a read error. The caller resets its
// cached state and waits for the socket to reappear before reconnecting.
var ErrSessionLost = errors.New("player connection lost")

const dialTimeout = 2 * time.Second

// Session owns one live connection to the player's IPC socket. At most one
// session is active at a time; a lost session is discarded, never reused.
type Session struct {
	conn     net.Conn
	r        *bufio.Reader
	clientID int
}

// Dial connects to the player's IPC socket. A missing or refusing socket is
// a transient condition: the caller waits for the next socket-appearance
// signal rather than retrying in a loop.
func Dial(path string, clientID int) (*Session, error) {
	conn, err := dial(path, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Session{
		conn:     conn,
		r:        bufio.NewReader(conn),
		clientID: clientID,
	}, nil
}

// Observe asks the player to emit property-change events for name,
// tagged with the session's client ID.
func (s *Session) Observe(name string) error {
	req := request{Command: []any{"observe_property", s.clientID, name}}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := s.conn.Write(data); err != nil {
		return ErrSessionLost
	}
	return nil
}

// Next blocks until one complete JSON line arrives and returns it decoded.
// Undecodable complete lines are logged and skipped. A read error, EOF, or
// a partial trailing line returns ErrSessionLost; Close unblocks a pending
// read and has the same effect.
func (s *Session) Next() (Event, error) {
	for {
		line, err := s.r.ReadBytes('\n')
		if err != nil {
			// A partial line here means the connection closed
			// mid-message; the fragment is not decodable on its own.
			return Event{}, ErrSessionLost
		}
		if len(line) <= 1 {
			continue
		}
		var msg message
		if err := json.Unmarshal(line, &msg); err != nil {
			slog.Warn("skipping undecodable line from player", "error", err)
			continue
		}
		return msg.decode(s.clientID), nil
	}
}

// Close tears the connection down, unblocking any pending Next.
func (s *Session) Close() error {
	return s.conn.Close()
}

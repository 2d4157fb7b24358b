package mpv

import "encoding/json"

// EventKind classifies a decoded line from the player.
type EventKind int

const (
	// EventOther covers replies and events the daemon does not act on.
	EventOther EventKind = iota
	// EventPropertyChange carries a new value for an observed property.
	EventPropertyChange
	// EventFileLoaded signals that the player started playing a new file.
	// Subscriptions persist server-side, so no re-observe is needed, but
	// cached values for volatile properties should be considered stale
	// until their next property-change arrives.
	EventFileLoaded
	// EventCommandError is a failed reply to an earlier request.
	// Logged by the caller, never fatal.
	EventCommandError
)

// Event is one decoded message from the player's IPC stream.
type Event struct {
	Kind      EventKind
	Name      string // property name, for EventPropertyChange
	Value     Value  // property value, for EventPropertyChange
	RequestID int    // for EventCommandError
	Message   string // error text, for EventCommandError
}

// message mirrors the wire shape of inbound lines. Unknown fields are
// ignored by encoding/json, which gives us the required tolerance for
// message shapes this daemon does not recognize.
// Docs: https://mpv.io/manual/stable/#json-ipc
type message struct {
	Event     string          `json:"event"`
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`
}

// request is the wire shape of outbound command lines.
type request struct {
	Command []any `json:"command"`
}

// decode maps a wire message onto an Event. clientID filters
// property-change events tagged for a different observer.
func (m *message) decode(clientID int) Event {
	switch {
	case m.Event == "property-change":
		if m.ID != 0 && m.ID != clientID {
			return Event{Kind: EventOther}
		}
		return Event{Kind: EventPropertyChange, Name: m.Name, Value: decodeValue(m.Data)}
	case m.Event == "file-loaded":
		return Event{Kind: EventFileLoaded}
	case m.Event == "" && m.Error != "" && m.Error != "success":
		return Event{Kind: EventCommandError, RequestID: m.RequestID, Message: m.Error}
	default:
		return Event{Kind: EventOther}
	}
}

package ipc

// Empty is used for RPC methods that don't need arguments.
type Empty struct{}

// StatusData is returned by Daemon.Status.
type StatusData struct {
	ConfigPath string           `json:"config_path"`
	SocketPath string           `json:"socket_path"`
	Connected  bool             `json:"connected"`
	LastLine   string           `json:"last_line"`
	Properties []PropertyStatus `json:"properties"`
}

// PropertyStatus shows one observed property and its last known value.
type PropertyStatus struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Set   bool   `json:"set"`
}

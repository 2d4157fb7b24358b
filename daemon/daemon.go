// Package daemon runs the observe/render loop: it waits for the player's
// IPC socket, maintains one session at a time, and re-renders the output
// line on every relevant event.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"mpvstatusd/internal/config"
	"mpvstatusd/internal/ipc"
	"mpvstatusd/internal/mpv"
	"mpvstatusd/internal/output"
	"mpvstatusd/internal/props"
	"mpvstatusd/internal/render"
	"mpvstatusd/internal/watcher"

	sdaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/afero"
)

// connectDelay is how long to wait after the socket appears before dialing.
// The player briefly refuses connections right after creating the socket.
const connectDelay = 100 * time.Millisecond

// Options configures a daemon run.
type Options struct {
	ConfigPath string
	Fs         afero.Fs
	// Out receives rendered lines; the process wires this to stdout.
	Out io.Writer
	// ControlSocket overrides the control socket path; empty selects the
	// platform default.
	ControlSocket string
	// NoControl disables the control socket entirely.
	NoControl bool
	// SetupLogging is invoked with the configured log level once the
	// config has been loaded.
	SetupLogging func(level string)
}

// Daemon holds the observe/render pipeline state. The event loop owns all
// mutation; the mutex only guards the status snapshot served to control
// clients from their own connections.
type Daemon struct {
	cfg       *config.Config
	propNames []string
	cache     *props.Cache
	renderer  *render.Renderer
	sink      *output.Sink

	// active is true once at least one event arrived in the current
	// session, i.e. the cache holds values from this connection epoch.
	active bool

	mu     sync.Mutex
	status ipc.StatusData
}

// sessionResult carries one decoded event, or the error that ended the
// session, from the reader goroutine into the event loop.
type sessionResult struct {
	event mpv.Event
	err   error
}

// New assembles a daemon from a loaded configuration.
func New(cfg *config.Config, configPath string, out io.Writer) *Daemon {
	d := &Daemon{
		cfg:       cfg,
		propNames: render.ReferencedProperties(cfg),
		cache:     props.New(),
		renderer:  render.New(cfg),
		sink:      output.New(out),
	}
	d.status = ipc.StatusData{
		ConfigPath: configPath,
		SocketPath: cfg.SocketPath,
	}
	return d
}

// Run loads config and runs the daemon until the context is cancelled.
// The player being absent is never an error; only startup problems are.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.LoadWithFs(opts.ConfigPath, opts.Fs)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.Logging.Level)
	}

	d := New(cfg, opts.ConfigPath, opts.Out)

	slog.Info("loaded config",
		"path", opts.ConfigPath,
		"socket", cfg.SocketPath,
		"properties", len(d.propNames))

	// Socket watcher runs for the whole daemon lifetime.
	w := watcher.New(cfg.SocketPath, time.Duration(cfg.Watcher.PollInterval))
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("socket watcher error", "error", err)
		}
	}()

	// Control socket, for `mpvstatusd status`.
	if !opts.NoControl {
		var ctl *ipc.Server
		if opts.ControlSocket != "" {
			ctl, err = ipc.NewServerAt(opts.ControlSocket, d)
		} else {
			ctl, err = ipc.NewServer(d)
		}
		if err != nil {
			return fmt.Errorf("failed to create control socket: %w", err)
		}
		go func() {
			if err := ctl.Serve(ctx); err != nil {
				slog.Error("control socket error", "error", err)
			}
		}()
	}

	// Notify systemd that we're ready (no-op on non-systemd systems)
	sdaemon.SdNotify(false, sdaemon.SdNotifyReady)
	slog.Info("daemon ready")

	d.loop(ctx, w.Events())

	sdaemon.SdNotify(false, sdaemon.SdNotifyStopping)

	<-watcherDone
	return nil
}

// loop multiplexes socket lifecycle signals and session events. Cache
// updates and renders are interleaved strictly within one iteration, so
// events are processed in arrival order and the renderer never sees a
// half-applied update.
func (d *Daemon) loop(ctx context.Context, socketEvents <-chan watcher.Event) {
	// Blank the bar until the player shows up.
	d.emit()

	var session *mpv.Session
	var events chan sessionResult

	defer func() {
		// On shutdown the connection is closed and nothing further is
		// rendered.
		if session != nil {
			session.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-socketEvents:
			switch ev {
			case watcher.Appeared:
				if session != nil {
					// Already connected; a single player is
					// tracked and a single session is kept.
					continue
				}
				session, events = d.connect(ctx)
			case watcher.Disappeared:
				if session != nil {
					// Tear down synchronously so a quick
					// reappearance cannot race the dying
					// session's reader.
					session.Close()
					awaitReaderExit(ctx, events)
					session = nil
					events = nil
					d.endSession()
				}
			}

		case res := <-events:
			if res.err != nil {
				slog.Info("player session ended")
				session = nil
				events = nil
				d.endSession()
				// A restarted player may rebind the same socket
				// file without the path ever vanishing, so no
				// Appeared signal would follow. Dial once while
				// the path still exists; a failed attempt leaves
				// reconnection to the watcher.
				if _, err := os.Stat(d.cfg.SocketPath); err == nil {
					session, events = d.connect(ctx)
				}
				continue
			}
			d.handleEvent(res.event)
		}
	}
}

// connect dials the player and issues one observe request per property
// referenced in the configuration. A failed dial is transient: the daemon
// stays idle until the watcher reports the socket again.
func (d *Daemon) connect(ctx context.Context) (*mpv.Session, chan sessionResult) {
	time.Sleep(connectDelay)

	session, err := mpv.Dial(d.cfg.SocketPath, d.cfg.ClientID)
	if err != nil {
		slog.Warn("cannot connect to player socket", "path", d.cfg.SocketPath, "error", err)
		return nil, nil
	}

	// New connection epoch: no stale values may survive into it.
	d.cache.Reset()
	d.active = false

	for _, name := range d.propNames {
		if err := session.Observe(name); err != nil {
			slog.Warn("failed to send observe request", "property", name, "error", err)
			session.Close()
			return nil, nil
		}
	}

	slog.Info("connected to player", "path", d.cfg.SocketPath, "properties", len(d.propNames))
	d.setConnected(true)
	d.emit()

	events := make(chan sessionResult)
	go func() {
		for {
			ev, err := session.Next()
			if err != nil {
				select {
				case events <- sessionResult{err: err}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case events <- sessionResult{event: ev}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return session, events
}

// awaitReaderExit discards remaining session events until the reader
// goroutine reports the session end. Close has already unblocked it, so
// this terminates promptly.
func awaitReaderExit(ctx context.Context, events chan sessionResult) {
	for {
		select {
		case res := <-events:
			if res.err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent applies one decoded event and re-renders.
func (d *Daemon) handleEvent(ev mpv.Event) {
	switch ev.Kind {
	case mpv.EventPropertyChange:
		d.cache.Set(ev.Name, ev.Value)
		d.active = true
		d.emit()
	case mpv.EventFileLoaded:
		// Subscriptions persist server-side; fresh values follow as
		// property-change events. Re-render with what we have.
		d.active = true
		d.emit()
	case mpv.EventCommandError:
		slog.Warn("player rejected request", "request_id", ev.RequestID, "error", ev.Message)
	}
}

// endSession resets per-connection state and reverts the output to the
// configured empty string.
func (d *Daemon) endSession() {
	d.setConnected(false)
	d.active = false
	d.cache.Reset()
	d.emit()
}

// emit renders the current cache and writes the line if it changed.
func (d *Daemon) emit() {
	line := d.renderer.Render(d.cache, d.active)
	if err := d.sink.Write(line); err != nil {
		slog.Error("failed to write output", "error", err)
	}
	d.updateStatus(line)
}

func (d *Daemon) setConnected(connected bool) {
	d.mu.Lock()
	d.status.Connected = connected
	d.mu.Unlock()
}

func (d *Daemon) updateStatus(line string) {
	snapshot := d.cache.Snapshot()
	properties := make([]ipc.PropertyStatus, 0, len(d.propNames))
	for _, name := range d.propNames {
		value, ok := snapshot[name]
		properties = append(properties, ipc.PropertyStatus{
			Name:  name,
			Value: value,
			Set:   ok && value != "",
		})
	}

	d.mu.Lock()
	d.status.LastLine = line
	d.status.Properties = properties
	d.mu.Unlock()
}

// HandleStatus implements ipc.Handler for control clients.
func (d *Daemon) HandleStatus() ipc.StatusData {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Package watcher reports when the player's IPC socket appears on and
// disappears from the filesystem. The player may not be running yet, and
// may start and stop any number of times while the daemon runs.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is a level-triggered signal about the socket path.
type Event int

const (
	Disappeared Event = iota
	Appeared
)

func (e Event) String() string {
	if e == Appeared {
		return "appeared"
	}
	return "disappeared"
}

// tracker de-duplicates existence observations into transitions. The first
// observation always produces an event so consumers learn the initial state.
type tracker struct {
	known  bool
	exists bool
}

// observe records the latest existence check and reports whether it
// represents a change worth emitting.
func (t *tracker) observe(exists bool) (Event, bool) {
	if t.known && t.exists == exists {
		return 0, false
	}
	t.known = true
	t.exists = exists
	if exists {
		return Appeared, true
	}
	return Disappeared, true
}

// Watcher monitors one socket path. Filesystem notification on the parent
// directory is used when available; a low-frequency existence poll runs
// regardless, both as the fallback on platforms or directories where
// notification fails and as a safety net for missed events.
type Watcher struct {
	path         string
	dir          string
	name         string
	pollInterval time.Duration

	events chan Event
	state  tracker
}

// New creates a watcher for the given socket path. pollInterval governs the
// fallback existence poll.
func New(path string, pollInterval time.Duration) *Watcher {
	return &Watcher{
		path:         path,
		dir:          filepath.Dir(path),
		name:         filepath.Base(path),
		pollInterval: pollInterval,
		events:       make(chan Event, 8),
	}
}

// Events returns the de-duplicated Appeared/Disappeared stream.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run watches until the context is cancelled. It never fails because the
// socket or its directory is missing; that is the expected idle state.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("filesystem notification unavailable, falling back to polling", "error", err)
		fsw = nil
	} else {
		defer fsw.Close()
	}

	watching := false
	if fsw != nil {
		watching = w.addDirWatch(fsw)
	}

	// Report the current state immediately so the daemon can connect to a
	// player that was already running when we started.
	if err := w.report(ctx, w.exists()); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var fsEvents chan fsnotify.Event
	var fsErrors chan error
	if fsw != nil {
		fsEvents = fsw.Events
		fsErrors = fsw.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if err := w.report(ctx, w.exists()); err != nil {
				return err
			}

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			slog.Warn("socket watch error", "error", err)

		case <-ticker.C:
			// The directory watch dies silently if the directory is
			// removed; re-establish it once the directory is back.
			if fsw != nil {
				if watching && !w.dirExists() {
					watching = false
				}
				if !watching {
					watching = w.addDirWatch(fsw)
				}
			}
			if err := w.report(ctx, w.exists()); err != nil {
				return err
			}
		}
	}
}

// report runs an existence observation through the de-duplicating tracker
// and emits the transition, if any.
func (w *Watcher) report(ctx context.Context, exists bool) error {
	ev, changed := w.state.observe(exists)
	if !changed {
		return nil
	}
	slog.Debug("socket state changed", "path", w.path, "state", ev)
	select {
	case w.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}

func (w *Watcher) dirExists() bool {
	_, err := os.Stat(w.dir)
	return err == nil
}

func (w *Watcher) addDirWatch(fsw *fsnotify.Watcher) bool {
	if err := fsw.Add(w.dir); err != nil {
		slog.Debug("cannot watch socket directory yet", "dir", w.dir, "error", err)
		return false
	}
	return true
}

package hyprland

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// Event is one line from the event socket: NAME>>DATA.
type Event struct {
	Name string
	Data string
}

// ParseEvent splits a raw event line. It reports false for lines without
// the >> separator.
func ParseEvent(line string) (Event, bool) {
	name, data, ok := strings.Cut(line, ">>")
	if !ok || name == "" {
		return Event{}, false
	}
	return Event{Name: name, Data: data}, true
}

// Handler reacts to one event. A returned error is logged and the listener
// keeps going.
type Handler func(ctx context.Context, ev Event) error

// Event names the listeners subscribe to.
const (
	EventWorkspace        = "workspace"
	EventCreateWorkspace  = "createworkspace"
	EventDestroyWorkspace = "destroyworkspace"
	EventActiveWindow     = "activewindow"
	EventActiveLayout     = "activelayout"
)

// maxEventLine bounds a single event line; window titles can be long.
const maxEventLine = 1 << 20

// Listener reads the event socket and dispatches events to handlers in
// arrival order on the calling goroutine.
type Listener struct {
	path     string
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewListener creates a listener for the event socket at path.
func NewListener(path string) *Listener {
	return &Listener{
		path:     path,
		handlers: make(map[string][]Handler),
		logger:   slog.Default().With("component", "hyprland"),
	}
}

// On registers h for events called name. Register before Run.
func (l *Listener) On(name string, h Handler) {
	l.handlers[name] = append(l.handlers[name], h)
}

// Run connects and dispatches until the compositor closes the socket
// (nil), a read fails (the error) or ctx is done (nil).
func (l *Listener) Run(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", l.path)
	if err != nil {
		return fmt.Errorf("connect to hyprland events: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxEventLine)
	for scanner.Scan() {
		ev, ok := ParseEvent(scanner.Text())
		if !ok {
			l.logger.Debug("skipping malformed event", "line", scanner.Text())
			continue
		}
		l.dispatch(ctx, ev)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("read hyprland events: %w", err)
	}
	l.logger.Info("hyprland closed the event socket")
	return nil
}

func (l *Listener) dispatch(ctx context.Context, ev Event) {
	for _, h := range l.handlers[ev.Name] {
		if err := h(ctx, ev); err != nil {
			l.logger.Warn("event handler failed", "event", ev.Name, "data", ev.Data, "error", err)
		}
	}
}

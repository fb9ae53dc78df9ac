// Package notification provides desktop notifications for network state changes.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
	"github.com/nikicat/bar-helper/internal/network"
)

const (
	appName = "bar-helper"
	// expireTimeout is in milliseconds.
	expireTimeout = int32(5000)
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Notify shows a notification, replacing the previous one if still open.
	Notify(ctx context.Context, summary, body, icon string) error
}

// DBusNotifier sends notifications via D-Bus. Successive notifications reuse
// the same bubble through replaces_id. It reconnects if the session bus
// connection drops.
type DBusNotifier struct {
	address string

	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
}

// NewDBusNotifier connects to the bus at address, or the session bus when
// address is empty.
func NewDBusNotifier(address string) (*DBusNotifier, error) {
	n := &DBusNotifier{address: address}
	if err := n.connect(); err != nil {
		return nil, err
	}
	return n, nil
}

// connect must be called with n.mu held (or during construction).
func (n *DBusNotifier) connect() error {
	var (
		conn *dbus.Conn
		err  error
	)
	if n.address == "" {
		conn, err = dbus.ConnectSessionBus()
	} else {
		conn, err = dbus.Connect(n.address)
	}
	if err != nil {
		return fmt.Errorf("connect to session bus: %w", err)
	}
	n.conn = conn
	return nil
}

// reconnect must be called with n.mu held.
func (n *DBusNotifier) reconnect() error {
	if n.conn != nil {
		n.conn.Close()
	}
	if err := n.connect(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	slog.Info("reconnected to D-Bus session bus")
	return nil
}

// Close closes the D-Bus connection.
func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

// Notify sends a desktop notification.
// If the D-Bus connection is dead, it reconnects and retries once.
func (n *DBusNotifier) Notify(ctx context.Context, summary, body, icon string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	id, err := n.doNotify(ctx, summary, body, icon)
	if err != nil && errors.Is(err, dbus.ErrClosed) {
		if reconnErr := n.reconnect(); reconnErr != nil {
			return fmt.Errorf("notify call: %w (reconnect failed: %v)", err, reconnErr)
		}
		id, err = n.doNotify(ctx, summary, body, icon)
	}
	if err != nil {
		return err
	}
	n.lastID = id
	return nil
}

func (n *DBusNotifier) doNotify(ctx context.Context, summary, body, icon string) (uint32, error) {
	obj := n.conn.Object(dbustypes.NotificationsBusName, dbustypes.NotificationsPath)
	call := obj.CallWithContext(ctx,
		dbustypes.NotificationsInterface+".Notify",
		0,
		appName,
		n.lastID, // replaces_id
		icon,
		summary,
		body,
		[]string{}, // actions
		map[string]dbus.Variant{},
		expireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify call: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("store notify result: %w", err)
	}
	return id, nil
}

// StateNotifier watches successive network records and notifies when the
// state changes. The first record only sets the baseline.
type StateNotifier struct {
	notifier Notifier

	seen  bool
	state string
}

// NewStateNotifier creates a state notifier.
func NewStateNotifier(notifier Notifier) *StateNotifier {
	return &StateNotifier{notifier: notifier}
}

// Observe records info and sends a notification on a state transition.
// Delivery failures are logged, not returned, so a missing notification
// daemon never stops the caller.
func (s *StateNotifier) Observe(ctx context.Context, info network.Info) {
	if s.seen && info.State == s.state {
		return
	}
	first := !s.seen
	s.seen = true
	s.state = info.State
	if first {
		return
	}

	if err := s.notifier.Notify(ctx, "Network", formatBody(info), info.Icon); err != nil {
		slog.Warn("failed to send notification", "error", err, "state", info.State)
		return
	}
	slog.Debug("sent desktop notification", "state", info.State)
}

func formatBody(info network.Info) string {
	switch {
	case info.SSID != "":
		return fmt.Sprintf("%s: <b>%s</b>", info.State, info.SSID)
	case info.Interface != "":
		return fmt.Sprintf("%s: <b>%s</b>", info.State, info.Interface)
	default:
		return info.State
	}
}

package nm

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// Change describes one PropertiesChanged signal from NetworkManager.
type Change struct {
	Path       dbus.ObjectPath
	Interface  string
	Properties []string
}

// Has reports whether prop is among the changed or invalidated properties.
func (c Change) Has(prop string) bool {
	return slices.Contains(c.Properties, prop)
}

// Watch subscribes to PropertiesChanged on every NetworkManager object.
// Changes are delivered in arrival order. The channel is closed when ctx
// is done or the bus connection is lost.
func (c *Client) Watch(ctx context.Context) (<-chan Change, error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchSender(dbustypes.BusName),
		dbus.WithMatchInterface(dbustypes.PropertiesInterface),
		dbus.WithMatchMember(dbustypes.PropertiesChanged),
		dbus.WithMatchPathNamespace(dbustypes.NMPath),
	}
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return nil, fmt.Errorf("subscribe to PropertiesChanged: %w", err)
	}

	sigs := make(chan *dbus.Signal, 64)
	c.conn.Signal(sigs)

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer func() {
			c.conn.RemoveSignal(sigs)
			// Best effort; the connection may already be gone.
			_ = c.conn.RemoveMatchSignal(opts...)
		}()

		for {
			select {
			case sig, ok := <-sigs:
				if !ok {
					return
				}
				change, ok := parseChange(sig)
				if !ok {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func parseChange(sig *dbus.Signal) (Change, bool) {
	if sig.Name != dbustypes.PropertiesInterface+"."+dbustypes.PropertiesChanged {
		return Change{}, false
	}
	if !strings.HasPrefix(string(sig.Path), dbustypes.NMPath) || len(sig.Body) < 2 {
		return Change{}, false
	}
	iface, ok := sig.Body[0].(string)
	if !ok {
		return Change{}, false
	}
	change := Change{Path: sig.Path, Interface: iface}
	if changed, ok := sig.Body[1].(map[string]dbus.Variant); ok {
		for name := range changed {
			change.Properties = append(change.Properties, name)
		}
	}
	if len(sig.Body) > 2 {
		if invalidated, ok := sig.Body[2].([]string); ok {
			change.Properties = append(change.Properties, invalidated...)
		}
	}
	slices.Sort(change.Properties)
	return change, true
}

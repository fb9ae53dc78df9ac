package nm

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// getProperty reads iface.name from obj and decodes it into T.
func getProperty[T any](ctx context.Context, obj dbus.BusObject, iface, name string) (T, error) {
	var zero T
	var v dbus.Variant
	if err := obj.CallWithContext(ctx, dbustypes.PropertiesGet, 0, iface, name).Store(&v); err != nil {
		return zero, fmt.Errorf("get %s.%s: %w", shortIface(iface), name, err)
	}
	var out T
	if err := v.Store(&out); err != nil {
		return zero, fmt.Errorf("decode %s.%s (%s): %w", shortIface(iface), name, v.Signature(), err)
	}
	return out, nil
}

func setProperty(ctx context.Context, obj dbus.BusObject, iface, name string, value any) error {
	call := obj.CallWithContext(ctx, dbustypes.PropertiesSet, 0, iface, name, dbus.MakeVariant(value))
	if call.Err != nil {
		return fmt.Errorf("set %s.%s: %w", shortIface(iface), name, call.Err)
	}
	return nil
}

// optionalPath maps NetworkManager's "/" placeholder to the empty path.
func optionalPath(p dbus.ObjectPath) (dbus.ObjectPath, bool) {
	if p == "" || p == dbustypes.NoObject {
		return "", false
	}
	return p, true
}

func shortIface(iface string) string {
	return strings.TrimPrefix(iface, "org.freedesktop.")
}

// Package nm provides typed proxies for the NetworkManager D-Bus API.
package nm

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// Client is a NetworkManager proxy bound to one bus connection.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	owns bool
}

// Connect dials the bus at address, or the system bus when address is empty.
// The returned client owns the connection; call Close to release it.
func Connect(address string) (*Client, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	if address == "" {
		conn, err = dbus.ConnectSystemBus()
	} else {
		conn, err = dbus.Connect(address)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	c := New(conn)
	c.owns = true
	return c, nil
}

// New wraps an existing connection. Close does not close conn.
func New(conn *dbus.Conn) *Client {
	return &Client{
		conn: conn,
		obj:  conn.Object(dbustypes.BusName, dbustypes.NMPath),
	}
}

// Close releases the connection if the client opened it.
func (c *Client) Close() error {
	if !c.owns {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) object(path dbus.ObjectPath) dbus.BusObject {
	return c.conn.Object(dbustypes.BusName, path)
}

// State returns NetworkManager's overall NMState.
func (c *Client) State(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, c.obj, dbustypes.NMInterface, "State")
}

// Connectivity returns the last NMConnectivityState NetworkManager determined.
func (c *Client) Connectivity(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, c.obj, dbustypes.NMInterface, "Connectivity")
}

// CheckConnectivity asks NetworkManager to re-run its connectivity check.
func (c *Client) CheckConnectivity(ctx context.Context) (uint32, error) {
	var state uint32
	if err := c.obj.CallWithContext(ctx, dbustypes.NMInterface+".CheckConnectivity", 0).Store(&state); err != nil {
		return 0, fmt.Errorf("call CheckConnectivity: %w", err)
	}
	return state, nil
}

// PrimaryConnection returns the active connection owning the default route,
// or nil when there is none.
func (c *Client) PrimaryConnection(ctx context.Context) (*ActiveConnection, error) {
	p, err := getProperty[dbus.ObjectPath](ctx, c.obj, dbustypes.NMInterface, "PrimaryConnection")
	if err != nil {
		return nil, err
	}
	path, ok := optionalPath(p)
	if !ok {
		return nil, nil
	}
	return &ActiveConnection{client: c, obj: c.object(path)}, nil
}

// PrimaryConnectionType returns the connection type of the primary connection.
func (c *Client) PrimaryConnectionType(ctx context.Context) (string, error) {
	return getProperty[string](ctx, c.obj, dbustypes.NMInterface, "PrimaryConnectionType")
}

// ActiveConnections lists every active connection.
func (c *Client) ActiveConnections(ctx context.Context) ([]*ActiveConnection, error) {
	paths, err := getProperty[[]dbus.ObjectPath](ctx, c.obj, dbustypes.NMInterface, "ActiveConnections")
	if err != nil {
		return nil, err
	}
	conns := make([]*ActiveConnection, 0, len(paths))
	for _, p := range paths {
		conns = append(conns, &ActiveConnection{client: c, obj: c.object(p)})
	}
	return conns, nil
}

// Devices lists the realized network devices.
func (c *Client) Devices(ctx context.Context) ([]*Device, error) {
	var paths []dbus.ObjectPath
	if err := c.obj.CallWithContext(ctx, dbustypes.NMInterface+".GetDevices", 0).Store(&paths); err != nil {
		return nil, fmt.Errorf("call GetDevices: %w", err)
	}
	return c.devices(paths), nil
}

func (c *Client) devices(paths []dbus.ObjectPath) []*Device {
	devs := make([]*Device, 0, len(paths))
	for _, p := range paths {
		devs = append(devs, &Device{client: c, obj: c.object(p)})
	}
	return devs
}

// WirelessEnabled reports the software radio switch.
func (c *Client) WirelessEnabled(ctx context.Context) (bool, error) {
	return getProperty[bool](ctx, c.obj, dbustypes.NMInterface, "WirelessEnabled")
}

// WirelessHardwareEnabled reports the hardware radio switch.
func (c *Client) WirelessHardwareEnabled(ctx context.Context) (bool, error) {
	return getProperty[bool](ctx, c.obj, dbustypes.NMInterface, "WirelessHardwareEnabled")
}

// SetWirelessEnabled flips the software radio switch.
func (c *Client) SetWirelessEnabled(ctx context.Context, enabled bool) error {
	return setProperty(ctx, c.obj, dbustypes.NMInterface, "WirelessEnabled", enabled)
}

// Enable turns networking as a whole on or off.
func (c *Client) Enable(ctx context.Context, enabled bool) error {
	if call := c.obj.CallWithContext(ctx, dbustypes.NMInterface+".Enable", 0, enabled); call.Err != nil {
		return fmt.Errorf("call Enable: %w", call.Err)
	}
	return nil
}

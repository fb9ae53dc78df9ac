package nm

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// ActiveConnection proxies org.freedesktop.NetworkManager.Connection.Active.
type ActiveConnection struct {
	client *Client
	obj    dbus.BusObject
}

func (a *ActiveConnection) Path() dbus.ObjectPath { return a.obj.Path() }

// ID is the user-visible connection name.
func (a *ActiveConnection) ID(ctx context.Context) (string, error) {
	return getProperty[string](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Id")
}

func (a *ActiveConnection) UUID(ctx context.Context) (string, error) {
	return getProperty[string](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Uuid")
}

// Type is the connection setting type, e.g. 802-11-wireless.
func (a *ActiveConnection) Type(ctx context.Context) (string, error) {
	return getProperty[string](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Type")
}

func (a *ActiveConnection) Vpn(ctx context.Context) (bool, error) {
	return getProperty[bool](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Vpn")
}

func (a *ActiveConnection) State(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, a.obj, dbustypes.ActiveConnectionInterface, "State")
}

// Devices lists the devices the connection is active on.
func (a *ActiveConnection) Devices(ctx context.Context) ([]*Device, error) {
	paths, err := getProperty[[]dbus.ObjectPath](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Devices")
	if err != nil {
		return nil, err
	}
	return a.client.devices(paths), nil
}

// Ip4Config returns the IPv4 configuration, or nil when none is assigned yet.
func (a *ActiveConnection) Ip4Config(ctx context.Context) (*Ip4Config, error) {
	p, err := getProperty[dbus.ObjectPath](ctx, a.obj, dbustypes.ActiveConnectionInterface, "Ip4Config")
	if err != nil {
		return nil, err
	}
	path, ok := optionalPath(p)
	if !ok {
		return nil, nil
	}
	return &Ip4Config{obj: a.client.object(path)}, nil
}

// Address is one entry of IP4Config.AddressData.
type Address struct {
	Address string
	Prefix  uint32
}

// CIDR formats the address as address/prefix.
func (a Address) CIDR() string {
	return fmt.Sprintf("%s/%d", a.Address, a.Prefix)
}

// Ip4Config proxies org.freedesktop.NetworkManager.IP4Config.
type Ip4Config struct {
	obj dbus.BusObject
}

// Addresses decodes AddressData (aa{sv}).
func (c *Ip4Config) Addresses(ctx context.Context) ([]Address, error) {
	data, err := getProperty[[]map[string]dbus.Variant](ctx, c.obj, dbustypes.IP4ConfigInterface, "AddressData")
	if err != nil {
		return nil, err
	}
	addrs := make([]Address, 0, len(data))
	for _, entry := range data {
		var a Address
		if v, ok := entry["address"]; ok {
			if err := v.Store(&a.Address); err != nil {
				return nil, fmt.Errorf("decode IP4Config.AddressData address: %w", err)
			}
		}
		if v, ok := entry["prefix"]; ok {
			if err := v.Store(&a.Prefix); err != nil {
				return nil, fmt.Errorf("decode IP4Config.AddressData prefix: %w", err)
			}
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func (c *Ip4Config) Gateway(ctx context.Context) (string, error) {
	return getProperty[string](ctx, c.obj, dbustypes.IP4ConfigInterface, "Gateway")
}

// Nameservers decodes NameserverData (aa{sv}).
func (c *Ip4Config) Nameservers(ctx context.Context) ([]string, error) {
	data, err := getProperty[[]map[string]dbus.Variant](ctx, c.obj, dbustypes.IP4ConfigInterface, "NameserverData")
	if err != nil {
		return nil, err
	}
	var servers []string
	for _, entry := range data {
		var s string
		if v, ok := entry["address"]; ok && v.Store(&s) == nil {
			servers = append(servers, s)
		}
	}
	return servers, nil
}

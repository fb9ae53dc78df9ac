package nm

import (
	"context"

	"github.com/godbus/dbus/v5"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// Device proxies org.freedesktop.NetworkManager.Device.
type Device struct {
	client *Client
	obj    dbus.BusObject
}

func (d *Device) Path() dbus.ObjectPath { return d.obj.Path() }

// Interface returns the kernel interface name, e.g. wlan0.
func (d *Device) Interface(ctx context.Context) (string, error) {
	return getProperty[string](ctx, d.obj, dbustypes.DeviceInterface, "Interface")
}

func (d *Device) State(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, d.obj, dbustypes.DeviceInterface, "State")
}

func (d *Device) DeviceType(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, d.obj, dbustypes.DeviceInterface, "DeviceType")
}

func (d *Device) HwAddress(ctx context.Context) (string, error) {
	return getProperty[string](ctx, d.obj, dbustypes.DeviceInterface, "HwAddress")
}

// Wireless views the device through the Device.Wireless interface.
// The caller is responsible for checking DeviceType first.
func (d *Device) Wireless() *WirelessDevice {
	return &WirelessDevice{Device: d}
}

// Wired views the device through the Device.Wired interface.
func (d *Device) Wired() *WiredDevice {
	return &WiredDevice{Device: d}
}

// WirelessDevice proxies org.freedesktop.NetworkManager.Device.Wireless.
type WirelessDevice struct {
	*Device
}

// ActiveAccessPoint returns the associated access point, or nil when not associated.
func (w *WirelessDevice) ActiveAccessPoint(ctx context.Context) (*AccessPoint, error) {
	p, err := getProperty[dbus.ObjectPath](ctx, w.obj, dbustypes.WirelessInterface, "ActiveAccessPoint")
	if err != nil {
		return nil, err
	}
	path, ok := optionalPath(p)
	if !ok {
		return nil, nil
	}
	return &AccessPoint{obj: w.client.object(path)}, nil
}

// AccessPoints lists the access points currently visible to the device.
func (w *WirelessDevice) AccessPoints(ctx context.Context) ([]*AccessPoint, error) {
	paths, err := getProperty[[]dbus.ObjectPath](ctx, w.obj, dbustypes.WirelessInterface, "AccessPoints")
	if err != nil {
		return nil, err
	}
	aps := make([]*AccessPoint, 0, len(paths))
	for _, p := range paths {
		aps = append(aps, &AccessPoint{obj: w.client.object(p)})
	}
	return aps, nil
}

// Bitrate is in kilobits/second.
func (w *WirelessDevice) Bitrate(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, w.obj, dbustypes.WirelessInterface, "Bitrate")
}

// WiredDevice proxies org.freedesktop.NetworkManager.Device.Wired.
type WiredDevice struct {
	*Device
}

// Speed is in megabits/second.
func (w *WiredDevice) Speed(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, w.obj, dbustypes.WiredInterface, "Speed")
}

func (w *WiredDevice) Carrier(ctx context.Context) (bool, error) {
	return getProperty[bool](ctx, w.obj, dbustypes.WiredInterface, "Carrier")
}

// AccessPoint proxies org.freedesktop.NetworkManager.AccessPoint.
type AccessPoint struct {
	obj dbus.BusObject
}

func (a *AccessPoint) Path() dbus.ObjectPath { return a.obj.Path() }

// Ssid decodes the raw SSID bytes as a string.
func (a *AccessPoint) Ssid(ctx context.Context) (string, error) {
	raw, err := getProperty[[]byte](ctx, a.obj, dbustypes.AccessPointInterface, "Ssid")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Strength is the raw signal quality byte. NetworkManager documents it as a
// percentage, but the wire type admits 0-255.
func (a *AccessPoint) Strength(ctx context.Context) (uint8, error) {
	return getProperty[uint8](ctx, a.obj, dbustypes.AccessPointInterface, "Strength")
}

// Frequency is in MHz.
func (a *AccessPoint) Frequency(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, a.obj, dbustypes.AccessPointInterface, "Frequency")
}

func (a *AccessPoint) MaxBitrate(ctx context.Context) (uint32, error) {
	return getProperty[uint32](ctx, a.obj, dbustypes.AccessPointInterface, "MaxBitrate")
}

// Package dbus provides D-Bus names and enum values for NetworkManager
// and desktop notifications.
package dbus

import "github.com/godbus/dbus/v5"

// D-Bus interface and path constants for NetworkManager.
const (
	BusName = "org.freedesktop.NetworkManager"
	NMPath  = "/org/freedesktop/NetworkManager"

	NMInterface               = "org.freedesktop.NetworkManager"
	DeviceInterface           = "org.freedesktop.NetworkManager.Device"
	WirelessInterface         = "org.freedesktop.NetworkManager.Device.Wireless"
	WiredInterface            = "org.freedesktop.NetworkManager.Device.Wired"
	AccessPointInterface      = "org.freedesktop.NetworkManager.AccessPoint"
	ActiveConnectionInterface = "org.freedesktop.NetworkManager.Connection.Active"
	IP4ConfigInterface        = "org.freedesktop.NetworkManager.IP4Config"

	PropertiesInterface     = "org.freedesktop.DBus.Properties"
	PropertiesGet           = PropertiesInterface + ".Get"
	PropertiesSet           = PropertiesInterface + ".Set"
	PropertiesChanged       = "PropertiesChanged"
	IntrospectableInterface = "org.freedesktop.DBus.Introspectable"
)

// NoObject is the path NetworkManager reports for an absent object reference,
// e.g. PrimaryConnection when offline.
const NoObject dbus.ObjectPath = "/"

// Desktop notification service.
const (
	NotificationsBusName   = "org.freedesktop.Notifications"
	NotificationsPath      = "/org/freedesktop/Notifications"
	NotificationsInterface = "org.freedesktop.Notifications"
)

// NMState values (NetworkManager.State).
const (
	NMStateUnknown         uint32 = 0
	NMStateAsleep          uint32 = 10
	NMStateDisconnected    uint32 = 20
	NMStateDisconnecting   uint32 = 30
	NMStateConnecting      uint32 = 40
	NMStateConnectedLocal  uint32 = 50
	NMStateConnectedSite   uint32 = 60
	NMStateConnectedGlobal uint32 = 70
)

// NMConnectivityState values (NetworkManager.Connectivity).
const (
	ConnectivityUnknown uint32 = 0
	ConnectivityNone    uint32 = 1
	ConnectivityPortal  uint32 = 2
	ConnectivityLimited uint32 = 3
	ConnectivityFull    uint32 = 4
)

// NMDeviceType values (Device.DeviceType).
const (
	DeviceTypeUnknown    uint32 = 0
	DeviceTypeEthernet   uint32 = 1
	DeviceTypeWifi       uint32 = 2
	DeviceTypeBluetooth  uint32 = 5
	DeviceTypeOLPCMesh   uint32 = 6
	DeviceTypeWiMAX      uint32 = 7
	DeviceTypeModem      uint32 = 8
	DeviceTypeInfiniband uint32 = 9
	DeviceTypeBond       uint32 = 10
	DeviceTypeVLAN       uint32 = 11
	DeviceTypeADSL       uint32 = 12
	DeviceTypeBridge     uint32 = 13
	DeviceTypeGeneric    uint32 = 14
	DeviceTypeTeam       uint32 = 15
	DeviceTypeTun        uint32 = 16
	DeviceTypeIPTunnel   uint32 = 17
	DeviceTypeMACVLAN    uint32 = 18
	DeviceTypeVXLAN      uint32 = 19
	DeviceTypeVeth       uint32 = 20
	DeviceTypeWireGuard  uint32 = 29
	DeviceTypeWifiP2P    uint32 = 30
	DeviceTypeLoopback   uint32 = 32
)

// NMActiveConnectionState values (Connection.Active.State).
const (
	ActiveConnectionUnknown      uint32 = 0
	ActiveConnectionActivating   uint32 = 1
	ActiveConnectionActivated    uint32 = 2
	ActiveConnectionDeactivating uint32 = 3
	ActiveConnectionDeactivated  uint32 = 4
)

// Error names used by the mock service.
const (
	ErrUnknownProperty = "org.freedesktop.DBus.Error.UnknownProperty"
	ErrUnknownMethod   = "org.freedesktop.DBus.Error.UnknownMethod"
	ErrNotSupported    = "org.freedesktop.DBus.Error.NotSupported"
)

// NewDBusError creates a D-Bus error with the given name and message.
func NewDBusError(name, message string) *dbus.Error {
	return &dbus.Error{
		Name: name,
		Body: []interface{}{message},
	}
}

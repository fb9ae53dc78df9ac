// Package testutil provides test utilities including a mock NetworkManager.
package testutil

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/google/uuid"
	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// MockNetworkManager is a minimal NetworkManager implementation for testing.
// Properties are served by godbus/prop, so setters emit PropertiesChanged
// the way the real daemon does.
type MockNetworkManager struct {
	conn *dbus.Conn

	mu         sync.Mutex
	root       *prop.Properties
	objects    map[dbus.ObjectPath]*prop.Properties
	devices    []dbus.ObjectPath
	active     []dbus.ObjectPath
	enabled    bool
	objCounter int
}

// Connection is the set of object paths created for one active connection.
type Connection struct {
	Device           dbus.ObjectPath
	ActiveConnection dbus.ObjectPath
	AccessPoint      dbus.ObjectPath // empty for wired
	IP4Config        dbus.ObjectPath
}

// WifiSpec describes a wireless device associated to an access point.
type WifiSpec struct {
	Interface string
	SSID      string
	Strength  uint8
	Frequency uint32
	Address   string
	Prefix    uint32
	Gateway   string
}

// EthernetSpec describes a wired device with carrier.
type EthernetSpec struct {
	Interface string
	Address   string
	Prefix    uint32
	Gateway   string
}

// NewMockNetworkManager creates a new mock service in the disconnected state.
func NewMockNetworkManager() *MockNetworkManager {
	return &MockNetworkManager{
		objects: make(map[dbus.ObjectPath]*prop.Properties),
		enabled: true,
	}
}

// nmMethods carries the methods exported on the NetworkManager interface,
// kept apart from the mock's Go API.
type nmMethods struct {
	m *MockNetworkManager
}

func (n nmMethods) GetDevices() ([]dbus.ObjectPath, *dbus.Error) {
	n.m.mu.Lock()
	defer n.m.mu.Unlock()
	return append([]dbus.ObjectPath(nil), n.m.devices...), nil
}

func (n nmMethods) Enable(enable bool) *dbus.Error {
	n.m.mu.Lock()
	n.m.enabled = enable
	n.m.mu.Unlock()
	if !enable {
		n.m.SetState(dbustypes.NMStateAsleep)
	}
	return nil
}

func (n nmMethods) CheckConnectivity() (uint32, *dbus.Error) {
	return n.m.root.GetMust(dbustypes.NMInterface, "Connectivity").(uint32), nil
}

// Register exports the mock service on the given connection.
func (m *MockNetworkManager) Register(conn *dbus.Conn) error {
	m.conn = conn

	root, err := prop.Export(conn, dbustypes.NMPath, prop.Map{
		dbustypes.NMInterface: {
			"State":                   {Value: dbustypes.NMStateDisconnected, Emit: prop.EmitTrue},
			"Connectivity":            {Value: dbustypes.ConnectivityNone, Emit: prop.EmitTrue},
			"PrimaryConnection":       {Value: dbustypes.NoObject, Emit: prop.EmitTrue},
			"PrimaryConnectionType":   {Value: "", Emit: prop.EmitTrue},
			"ActiveConnections":       {Value: []dbus.ObjectPath{}, Emit: prop.EmitTrue},
			"Devices":                 {Value: []dbus.ObjectPath{}, Emit: prop.EmitTrue},
			"WirelessEnabled":         {Value: true, Writable: true, Emit: prop.EmitTrue},
			"WirelessHardwareEnabled": {Value: true, Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return fmt.Errorf("export Properties: %w", err)
	}
	m.root = root

	if err := conn.Export(nmMethods{m}, dbustypes.NMPath, dbustypes.NMInterface); err != nil {
		return fmt.Errorf("export NetworkManager: %w", err)
	}

	node := &introspect.Node{
		Name: dbustypes.NMPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       dbustypes.NMInterface,
				Methods:    introspect.Methods(nmMethods{m}),
				Properties: root.Introspection(dbustypes.NMInterface),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), dbustypes.NMPath, dbustypes.IntrospectableInterface); err != nil {
		return fmt.Errorf("export Introspectable: %w", err)
	}

	reply, err := conn.RequestName(dbustypes.BusName, dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("not primary owner (reply=%d)", reply)
	}
	return nil
}

func (m *MockNetworkManager) nextPath(kind string) dbus.ObjectPath {
	m.objCounter++
	return dbus.ObjectPath(fmt.Sprintf("%s/%s/%d", dbustypes.NMPath, kind, m.objCounter))
}

func (m *MockNetworkManager) export(path dbus.ObjectPath, props prop.Map) error {
	p, err := prop.Export(m.conn, path, props)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	m.objects[path] = p
	return nil
}

func (m *MockNetworkManager) addIP4Config(address string, prefix uint32, gateway string) (dbus.ObjectPath, error) {
	path := m.nextPath("IP4Config")
	addressData := []map[string]dbus.Variant{}
	if address != "" {
		addressData = append(addressData, map[string]dbus.Variant{
			"address": dbus.MakeVariant(address),
			"prefix":  dbus.MakeVariant(prefix),
		})
	}
	err := m.export(path, prop.Map{
		dbustypes.IP4ConfigInterface: {
			"AddressData": {Value: addressData, Emit: prop.EmitTrue},
			"Gateway":     {Value: gateway, Emit: prop.EmitTrue},
			"NameserverData": {Value: []map[string]dbus.Variant{
				{"address": dbus.MakeVariant(gateway)},
			}, Emit: prop.EmitTrue},
		},
	})
	return path, err
}

func (m *MockNetworkManager) addDevice(iface string, devType uint32, extra prop.Map) (dbus.ObjectPath, error) {
	path := m.nextPath("Devices")
	props := prop.Map{
		dbustypes.DeviceInterface: {
			"Interface":  {Value: iface, Emit: prop.EmitTrue},
			"State":      {Value: uint32(100), Emit: prop.EmitTrue},
			"DeviceType": {Value: devType, Emit: prop.EmitConst},
			"HwAddress":  {Value: "02:00:00:00:00:01", Emit: prop.EmitTrue},
		},
	}
	for iface, p := range extra {
		props[iface] = p
	}
	if err := m.export(path, props); err != nil {
		return "", err
	}
	m.devices = append(m.devices, path)
	m.root.SetMust(dbustypes.NMInterface, "Devices", append([]dbus.ObjectPath(nil), m.devices...))
	return path, nil
}

func (m *MockNetworkManager) addActive(id, connType string, dev, ip4 dbus.ObjectPath) (dbus.ObjectPath, error) {
	path := m.nextPath("ActiveConnection")
	err := m.export(path, prop.Map{
		dbustypes.ActiveConnectionInterface: {
			"Id":        {Value: id, Emit: prop.EmitTrue},
			"Uuid":      {Value: uuid.NewString(), Emit: prop.EmitConst},
			"Type":      {Value: connType, Emit: prop.EmitTrue},
			"Vpn":       {Value: false, Emit: prop.EmitConst},
			"State":     {Value: dbustypes.ActiveConnectionActivated, Emit: prop.EmitTrue},
			"Devices":   {Value: []dbus.ObjectPath{dev}, Emit: prop.EmitTrue},
			"Ip4Config": {Value: ip4, Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return "", err
	}
	m.active = append(m.active, path)
	m.root.SetMust(dbustypes.NMInterface, "ActiveConnections", append([]dbus.ObjectPath(nil), m.active...))
	return path, nil
}

// AddWifi creates a wireless device, its access point and an activated connection.
func (m *MockNetworkManager) AddWifi(spec WifiSpec) (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ap := m.nextPath("AccessPoint")
	err := m.export(ap, prop.Map{
		dbustypes.AccessPointInterface: {
			"Ssid":       {Value: []byte(spec.SSID), Emit: prop.EmitTrue},
			"Strength":   {Value: spec.Strength, Emit: prop.EmitTrue},
			"Frequency":  {Value: spec.Frequency, Emit: prop.EmitTrue},
			"MaxBitrate": {Value: uint32(866700), Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return Connection{}, err
	}
	ip4, err := m.addIP4Config(spec.Address, spec.Prefix, spec.Gateway)
	if err != nil {
		return Connection{}, err
	}
	dev, err := m.addDevice(spec.Interface, dbustypes.DeviceTypeWifi, prop.Map{
		dbustypes.WirelessInterface: {
			"ActiveAccessPoint": {Value: ap, Emit: prop.EmitTrue},
			"AccessPoints":      {Value: []dbus.ObjectPath{ap}, Emit: prop.EmitTrue},
			"Bitrate":           {Value: uint32(433300), Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return Connection{}, err
	}
	ac, err := m.addActive(spec.SSID, "802-11-wireless", dev, ip4)
	if err != nil {
		return Connection{}, err
	}
	return Connection{Device: dev, ActiveConnection: ac, AccessPoint: ap, IP4Config: ip4}, nil
}

// AddEthernet creates a wired device and an activated connection.
func (m *MockNetworkManager) AddEthernet(spec EthernetSpec) (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ip4, err := m.addIP4Config(spec.Address, spec.Prefix, spec.Gateway)
	if err != nil {
		return Connection{}, err
	}
	dev, err := m.addDevice(spec.Interface, dbustypes.DeviceTypeEthernet, prop.Map{
		dbustypes.WiredInterface: {
			"Speed":   {Value: uint32(1000), Emit: prop.EmitTrue},
			"Carrier": {Value: true, Emit: prop.EmitTrue},
		},
	})
	if err != nil {
		return Connection{}, err
	}
	ac, err := m.addActive("Wired connection 1", "802-3-ethernet", dev, ip4)
	if err != nil {
		return Connection{}, err
	}
	return Connection{Device: dev, ActiveConnection: ac, IP4Config: ip4}, nil
}

// AddDevice creates a bare device of the given NMDeviceType with an activated
// connection and no IPv4 configuration.
func (m *MockNetworkManager) AddDevice(iface string, devType uint32, connType string) (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, err := m.addDevice(iface, devType, nil)
	if err != nil {
		return Connection{}, err
	}
	ac, err := m.addActive(iface, connType, dev, dbustypes.NoObject)
	if err != nil {
		return Connection{}, err
	}
	return Connection{Device: dev, ActiveConnection: ac}, nil
}

// SetPrimary makes ac the primary connection. Pass dbustypes.NoObject to clear it.
func (m *MockNetworkManager) SetPrimary(ac dbus.ObjectPath, connType string) {
	m.root.SetMust(dbustypes.NMInterface, "PrimaryConnectionType", connType)
	m.root.SetMust(dbustypes.NMInterface, "PrimaryConnection", ac)
}

// SetState sets NetworkManager.State.
func (m *MockNetworkManager) SetState(state uint32) {
	m.root.SetMust(dbustypes.NMInterface, "State", state)
}

// SetConnectivity sets NetworkManager.Connectivity.
func (m *MockNetworkManager) SetConnectivity(c uint32) {
	m.root.SetMust(dbustypes.NMInterface, "Connectivity", c)
}

// SetStrength updates an access point's signal strength.
func (m *MockNetworkManager) SetStrength(ap dbus.ObjectPath, strength uint8) {
	m.mu.Lock()
	p := m.objects[ap]
	m.mu.Unlock()
	p.SetMust(dbustypes.AccessPointInterface, "Strength", strength)
}

// WirelessEnabled returns the current value of the writable radio switch.
func (m *MockNetworkManager) WirelessEnabled() bool {
	return m.root.GetMust(dbustypes.NMInterface, "WirelessEnabled").(bool)
}

// NetworkingEnabled reports the last value passed to Enable.
func (m *MockNetworkManager) NetworkingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

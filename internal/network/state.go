// Package network derives the status-bar view of NetworkManager state:
// the connection record, the display icon and its live updates.
package network

import (
	"fmt"

	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
)

// State mirrors NetworkManager's NMState.
type State uint32

const (
	StateUnknown         = State(dbustypes.NMStateUnknown)
	StateAsleep          = State(dbustypes.NMStateAsleep)
	StateDisconnected    = State(dbustypes.NMStateDisconnected)
	StateDisconnecting   = State(dbustypes.NMStateDisconnecting)
	StateConnecting      = State(dbustypes.NMStateConnecting)
	StateConnectedLocal  = State(dbustypes.NMStateConnectedLocal)
	StateConnectedSite   = State(dbustypes.NMStateConnectedSite)
	StateConnectedGlobal = State(dbustypes.NMStateConnectedGlobal)
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateAsleep:
		return "Asleep"
	case StateDisconnected:
		return "Disconnected"
	case StateDisconnecting:
		return "Disconnecting"
	case StateConnecting:
		return "Connecting"
	case StateConnectedLocal:
		return "ConnectedLocal"
	case StateConnectedSite:
		return "ConnectedSite"
	case StateConnectedGlobal:
		return "ConnectedGlobal"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Connected reports whether s is one of the connected states.
func (s State) Connected() bool {
	switch s {
	case StateConnectedLocal, StateConnectedSite, StateConnectedGlobal:
		return true
	}
	return false
}

// deviceKinds names NMDeviceType values for the "kind" field.
var deviceKinds = map[uint32]string{
	dbustypes.DeviceTypeEthernet:   "wired",
	dbustypes.DeviceTypeWifi:       "wireless",
	dbustypes.DeviceTypeBluetooth:  "bluetooth",
	dbustypes.DeviceTypeOLPCMesh:   "olpc-mesh",
	dbustypes.DeviceTypeWiMAX:      "wimax",
	dbustypes.DeviceTypeModem:      "modem",
	dbustypes.DeviceTypeInfiniband: "infiniband",
	dbustypes.DeviceTypeBond:       "bond",
	dbustypes.DeviceTypeVLAN:       "vlan",
	dbustypes.DeviceTypeADSL:       "adsl",
	dbustypes.DeviceTypeBridge:     "bridge",
	dbustypes.DeviceTypeGeneric:    "generic",
	dbustypes.DeviceTypeTeam:       "team",
	dbustypes.DeviceTypeTun:        "tun",
	dbustypes.DeviceTypeIPTunnel:   "ip-tunnel",
	dbustypes.DeviceTypeMACVLAN:    "macvlan",
	dbustypes.DeviceTypeVXLAN:      "vxlan",
	dbustypes.DeviceTypeVeth:       "veth",
	dbustypes.DeviceTypeWireGuard:  "wireguard",
	dbustypes.DeviceTypeWifiP2P:    "wifi-p2p",
	dbustypes.DeviceTypeLoopback:   "loopback",
}

// DeviceKind returns the "kind" label for an NMDeviceType.
func DeviceKind(deviceType uint32) string {
	if k, ok := deviceKinds[deviceType]; ok {
		return k
	}
	return "unknown"
}

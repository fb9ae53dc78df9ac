package network

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
)

// ErrSignalOutOfRange is returned for signal strengths above 100%.
var ErrSignalOutOfRange = errors.New("signal strength out of range")

// SignalStrength is a validated percentage in [0,100].
// The zero value is 0%.
type SignalStrength struct {
	pct uint8
}

// FullSignal is used for links without a radio, such as ethernet.
var FullSignal = SignalStrength{pct: 100}

// NewSignalStrength validates pct.
func NewSignalStrength(pct int) (SignalStrength, error) {
	if pct < 0 || pct > 100 {
		return SignalStrength{}, fmt.Errorf("%w: %d", ErrSignalOutOfRange, pct)
	}
	return SignalStrength{pct: uint8(pct)}, nil
}

// ParseSignalStrength validates the raw AccessPoint.Strength byte.
func ParseSignalStrength(raw uint8) (SignalStrength, error) {
	return NewSignalStrength(int(raw))
}

func (s SignalStrength) Percent() int { return int(s.pct) }

func (s SignalStrength) String() string { return strconv.Itoa(int(s.pct)) }

// bucket maps [0,25) [25,50) [50,75) [75,100] to 1..4.
func (s SignalStrength) bucket() int {
	switch {
	case s.pct < 25:
		return 1
	case s.pct < 50:
		return 2
	case s.pct < 75:
		return 3
	default:
		return 4
	}
}

// Icon identifies one of the status icons.
type Icon string

const (
	IconAsleep        Icon = "asleep"
	IconConnecting    Icon = "connecting"
	IconDisconnecting Icon = "disconnecting"
	IconDisconnected  Icon = "disconnected"
)

// Icons lists every icon Classify can return.
var Icons = []Icon{
	IconAsleep, IconConnecting, IconDisconnecting, IconDisconnected,
	"connected-1", "connected-2", "connected-3", "connected-4",
	"connected-global-1", "connected-global-2", "connected-global-3", "connected-global-4",
}

// Classify picks the icon for a network state. Strength is ignored unless
// the state is connected; global selects the connected-global family.
func Classify(state State, strength SignalStrength, global bool) Icon {
	switch state {
	case StateConnecting:
		return IconConnecting
	case StateDisconnecting:
		return IconDisconnecting
	case StateDisconnected:
		return IconDisconnected
	case StateConnectedLocal, StateConnectedSite, StateConnectedGlobal:
		if global {
			return Icon(fmt.Sprintf("connected-global-%d", strength.bucket()))
		}
		return Icon(fmt.Sprintf("connected-%d", strength.bucket()))
	default:
		return IconAsleep
	}
}

// IconSet resolves icons to files on disk.
type IconSet struct {
	Dir         string
	Ext         string
	AnimatedExt string
}

// Path returns the asset path for icon. The connecting icon is animated.
func (s IconSet) Path(icon Icon) string {
	ext := s.Ext
	if icon == IconConnecting && s.AnimatedExt != "" {
		ext = s.AnimatedExt
	}
	return filepath.Join(s.Dir, string(icon)+"."+ext)
}

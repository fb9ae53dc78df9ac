package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
	"github.com/nikicat/bar-helper/internal/nm"
)

// Info is one network status record. All fields are strings and empty when
// they do not apply; the JSON keys are consumed by bar configs as-is.
type Info struct {
	Interface      string `json:"interface"`
	State          string `json:"state"`
	Kind           string `json:"kind"`
	SSID           string `json:"ssid"`
	SignalStrength string `json:"signalStrength"`
	Frequency      string `json:"frequency"`
	IPAddr         string `json:"ipaddr"`
	CIDR           string `json:"cird"`
	Gateway        string `json:"gateway"`
	Icon           string `json:"icon"`
}

// Text renders the record as a single human-readable line.
func (i Info) Text() string {
	switch {
	case i.SSID != "":
		return fmt.Sprintf("%s %s%% %s", i.SSID, i.SignalStrength, i.IPAddr)
	case i.Interface != "":
		return strings.TrimSpace(i.Interface + " " + i.IPAddr)
	default:
		return i.State
	}
}

// Prober answers whether the host has global internet connectivity.
type Prober interface {
	Connected(ctx context.Context) bool
}

// NMConnectivity is a Prober backed by NetworkManager's own connectivity check.
type NMConnectivity struct {
	Client *nm.Client
}

func (p NMConnectivity) Connected(ctx context.Context) bool {
	c, err := p.Client.Connectivity(ctx)
	if err != nil {
		slog.Debug("read connectivity", "error", err)
		return false
	}
	return c == dbustypes.ConnectivityFull
}

// Gatherer builds Info records from NetworkManager.
type Gatherer struct {
	client *nm.Client
	probe  Prober
	icons  IconSet
}

// NewGatherer creates a gatherer. A nil probe means global connectivity is
// never reported.
func NewGatherer(client *nm.Client, probe Prober, icons IconSet) *Gatherer {
	return &Gatherer{client: client, probe: probe, icons: icons}
}

// Gather reads the primary connection and returns its record.
func (g *Gatherer) Gather(ctx context.Context) (Info, error) {
	raw, err := g.client.State(ctx)
	if err != nil {
		return Info{}, err
	}
	state := State(raw)
	info := Info{State: state.String()}

	strength, err := g.fillPrimary(ctx, &info)
	if err != nil {
		return Info{}, err
	}

	global := false
	if info.Interface != "" && state.Connected() && g.probe != nil {
		global = g.probe.Connected(ctx)
	}
	info.Icon = g.icons.Path(Classify(state, strength, global))
	return info, nil
}

// fillPrimary fills the link fields from the primary connection and returns
// the signal strength to classify with. Without a primary connection the
// record keeps only its state.
func (g *Gatherer) fillPrimary(ctx context.Context, info *Info) (SignalStrength, error) {
	ac, err := g.client.PrimaryConnection(ctx)
	if err != nil || ac == nil {
		return SignalStrength{}, err
	}
	devs, err := ac.Devices(ctx)
	if err != nil {
		return SignalStrength{}, err
	}
	if len(devs) == 0 {
		return SignalStrength{}, nil
	}
	dev := devs[0]

	if info.Interface, err = dev.Interface(ctx); err != nil {
		return SignalStrength{}, err
	}
	devType, err := dev.DeviceType(ctx)
	if err != nil {
		return SignalStrength{}, err
	}
	info.Kind = DeviceKind(devType)

	if err := fillIP4(ctx, ac, info); err != nil {
		return SignalStrength{}, err
	}

	if devType != dbustypes.DeviceTypeWifi {
		return FullSignal, nil
	}
	return fillWireless(ctx, dev.Wireless(), info)
}

func fillIP4(ctx context.Context, ac *nm.ActiveConnection, info *Info) error {
	ip4, err := ac.Ip4Config(ctx)
	if err != nil || ip4 == nil {
		return err
	}
	addrs, err := ip4.Addresses(ctx)
	if err != nil {
		return err
	}
	if len(addrs) > 0 {
		info.IPAddr = addrs[0].Address
		info.CIDR = strconv.FormatUint(uint64(addrs[0].Prefix), 10)
	}
	info.Gateway, err = ip4.Gateway(ctx)
	return err
}

func fillWireless(ctx context.Context, w *nm.WirelessDevice, info *Info) (SignalStrength, error) {
	ap, err := w.ActiveAccessPoint(ctx)
	if err != nil || ap == nil {
		return SignalStrength{}, err
	}
	if info.SSID, err = ap.Ssid(ctx); err != nil {
		return SignalStrength{}, err
	}
	raw, err := ap.Strength(ctx)
	if err != nil {
		return SignalStrength{}, err
	}
	strength, err := ParseSignalStrength(raw)
	if err != nil {
		return SignalStrength{}, fmt.Errorf("access point %s: %w", ap.Path(), err)
	}
	freq, err := ap.Frequency(ctx)
	if err != nil {
		return SignalStrength{}, err
	}
	info.SignalStrength = strength.String()
	info.Frequency = strconv.FormatUint(uint64(freq), 10)
	return strength, nil
}

// ErrBusClosed is returned by Follow when the bus connection goes away.
var ErrBusClosed = errors.New("bus connection closed")

// Follow emits the current record, then a new record each time a
// NetworkManager property change alters it. Gather errors inside the loop
// are logged and skipped. An emit error ends the loop.
func (g *Gatherer) Follow(ctx context.Context, emit func(Info) error) error {
	changes, err := g.client.Watch(ctx)
	if err != nil {
		return err
	}

	last, err := g.Gather(ctx)
	if err != nil {
		return err
	}
	if err := emit(last); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrBusClosed
			}
			slog.Debug("network property changed", "path", change.Path, "interface", change.Interface, "properties", change.Properties)
			if !drain(changes) {
				if ctx.Err() != nil {
					return nil
				}
				return ErrBusClosed
			}

			info, err := g.Gather(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Warn("gather network info failed", "error", err)
				continue
			}
			if info == last {
				continue
			}
			last = info
			if err := emit(info); err != nil {
				return err
			}
		}
	}
}

// drain discards queued changes so a burst of signals costs one Gather.
// It reports false if the channel was closed.
func drain(changes <-chan nm.Change) bool {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

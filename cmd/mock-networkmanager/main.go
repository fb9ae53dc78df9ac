// mock-networkmanager runs a minimal NetworkManager for trying out bar configs.
//
// Point bar-helper at it with system_bus in the config file, or run it on the
// session bus and set system_bus to $DBUS_SESSION_BUS_ADDRESS.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	dbustypes "github.com/nikicat/bar-helper/internal/dbus"
	"github.com/nikicat/bar-helper/internal/logging"
	"github.com/nikicat/bar-helper/internal/testutil"
)

type options struct {
	address string
	wifi    string
	wired   string
	drift   time.Duration
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:           "mock-networkmanager",
		Short:         "Serve a fake NetworkManager on a D-Bus bus",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.address, "address", "", "Bus address (default: session bus)")
	cmd.Flags().StringVar(&opts.wifi, "wifi", "", "Add a primary wireless connection, format 'ssid:strength'")
	cmd.Flags().StringVar(&opts.wired, "wired", "", "Add a primary wired connection on this interface")
	cmd.Flags().DurationVar(&opts.drift, "drift", 0, "Cycle the wireless signal strength at this interval")

	logging.Setup(logging.Options{Level: logging.ParseLevel("debug")})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("mock networkmanager failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	var (
		conn *dbus.Conn
		err  error
	)
	if opts.address == "" {
		conn, err = dbus.ConnectSessionBus()
	} else {
		conn, err = dbus.Connect(opts.address)
	}
	if err != nil {
		return fmt.Errorf("connect to bus: %w", err)
	}
	defer conn.Close()

	mock := testutil.NewMockNetworkManager()
	if err := mock.Register(conn); err != nil {
		return fmt.Errorf("register mock service: %w", err)
	}

	var ap dbus.ObjectPath
	switch {
	case opts.wifi != "":
		ssid, strength, err := parseWifi(opts.wifi)
		if err != nil {
			return err
		}
		c, err := mock.AddWifi(testutil.WifiSpec{
			Interface: "wlan0",
			SSID:      ssid,
			Strength:  strength,
			Frequency: 5180,
			Address:   "192.168.1.42",
			Prefix:    24,
			Gateway:   "192.168.1.1",
		})
		if err != nil {
			return err
		}
		mock.SetPrimary(c.ActiveConnection, "802-11-wireless")
		ap = c.AccessPoint
	case opts.wired != "":
		c, err := mock.AddEthernet(testutil.EthernetSpec{
			Interface: opts.wired,
			Address:   "10.0.0.5",
			Prefix:    16,
			Gateway:   "10.0.0.1",
		})
		if err != nil {
			return err
		}
		mock.SetPrimary(c.ActiveConnection, "802-3-ethernet")
	}
	if opts.wifi != "" || opts.wired != "" {
		mock.SetState(dbustypes.NMStateConnectedGlobal)
		mock.SetConnectivity(dbustypes.ConnectivityFull)
	}

	slog.Info("mock NetworkManager running, press Ctrl+C to exit", "bus", conn.Names()[0])

	if opts.drift <= 0 || ap == "" {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(opts.drift)
	defer ticker.Stop()
	levels := []uint8{90, 70, 45, 20, 5, 20, 45, 70}
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			strength := levels[i%len(levels)]
			mock.SetStrength(ap, strength)
			slog.Debug("signal strength changed", "strength", strength)
		}
	}
}

func parseWifi(s string) (string, uint8, error) {
	ssid, raw, ok := strings.Cut(s, ":")
	if !ok {
		return s, 80, nil
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil || n > 100 {
		return "", 0, fmt.Errorf("invalid strength %q: want 0-100", raw)
	}
	return ssid, uint8(n), nil
}

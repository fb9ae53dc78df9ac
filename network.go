package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikicat/bar-helper/internal/config"
	"github.com/nikicat/bar-helper/internal/network"
	"github.com/nikicat/bar-helper/internal/nm"
	"github.com/nikicat/bar-helper/internal/notification"
	"github.com/nikicat/bar-helper/internal/probe"
	"github.com/nikicat/bar-helper/internal/service"
)

func newNetworkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Query NetworkManager and internet connectivity",
	}

	var follow, notify bool
	info := &cobra.Command{
		Use:   "info",
		Short: "Print the primary connection, its state and icon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if notify && !follow {
				return errors.New("--notify requires --follow")
			}
			return a.runNetworkInfo(cmd.Context(), follow, notify)
		},
	}
	info.Flags().BoolVar(&follow, "follow", false, "Keep running and print a new record on every change")
	info.Flags().BoolVar(&notify, "notify", false, "Send a desktop notification on state changes (with --follow)")

	cmd.AddCommand(
		info,
		&cobra.Command{
			Use:   "test",
			Short: "Send one ICMP echo to the connectivity host",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runNetworkTest(cmd.Context())
			},
		},
		notImplementedCmd("list", "List visible networks (not implemented)"),
		notImplementedCmd("connect", "Connect to a network (not implemented)"),
	)
	return cmd
}

func (a *app) probeConfig() probe.Config {
	c := a.cfg.Connectivity
	return probe.Config{
		Host:        c.Host,
		Timeout:     time.Duration(c.Timeout),
		PayloadSize: c.PayloadSize,
		ID:          c.ID,
	}
}

func (a *app) prober(client *nm.Client) network.Prober {
	if a.cfg.Connectivity.Method == config.MethodNetworkManager {
		return network.NMConnectivity{Client: client}
	}
	return probe.New(a.probeConfig())
}

func (a *app) icons() network.IconSet {
	return network.IconSet{
		Dir:         a.cfg.Icons.Dir,
		Ext:         a.cfg.Icons.Ext,
		AnimatedExt: a.cfg.Icons.AnimatedExt,
	}
}

func (a *app) runNetworkInfo(ctx context.Context, follow, notify bool) error {
	client, err := nm.Connect(a.cfg.SystemBus)
	if err != nil {
		return err
	}
	defer client.Close()

	gatherer := network.NewGatherer(client, a.prober(client), a.icons())
	if !follow {
		info, err := gatherer.Gather(ctx)
		if err != nil {
			return fmt.Errorf("gather network info: %w", err)
		}
		return a.out.Emit(info)
	}

	// Under a Type=notify unit, startup ends with the first record.
	ready := false
	write := func(info network.Info) error {
		if err := a.out.Emit(info); err != nil {
			return err
		}
		if !ready {
			ready = true
			service.Ready()
		}
		return nil
	}
	defer service.Stopping()

	emit := write
	if notify || a.cfg.NotificationsEnabled() {
		notifier, err := notification.NewDBusNotifier(a.cfg.SessionBus)
		if err != nil {
			slog.Warn("failed to create desktop notifier, notifications disabled", "error", err)
		} else {
			defer notifier.Close()
			states := notification.NewStateNotifier(notifier)
			emit = func(info network.Info) error {
				states.Observe(ctx, info)
				return write(info)
			}
			slog.Debug("desktop notifications enabled")
		}
	}
	return gatherer.Follow(ctx, emit)
}

func (a *app) runNetworkTest(ctx context.Context) error {
	res := probe.New(a.probeConfig()).Check(ctx)
	if err := a.out.Emit(res); err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("%s unreachable: %s", res.Target, res.Error)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikicat/bar-helper/internal/hyprland"
)

func newHyprlandCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hyprland",
		Short: "Follow Hyprland compositor state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "workspace",
			Short: "Print the workspace list on every workspace change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runWorkspace(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "active-window",
			Short: "Print the focused window on every focus change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runActiveWindow(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "keyboard-language",
			Short: "Print the main keyboard's layout on every layout change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runKeyboardLanguage(cmd.Context())
			},
		},
	)
	return cmd
}

// hyprland locates the compositor sockets, waiting for the event socket if
// Hyprland is still starting.
func (a *app) hyprland(ctx context.Context) (*hyprland.Client, *hyprland.Listener, error) {
	sockets, err := hyprland.Locate(a.cfg.Hyprland.Instance, a.cfg.Hyprland.SocketDir)
	if err != nil {
		return nil, nil, err
	}
	if err := hyprland.WaitForSocket(ctx, sockets.Events(), time.Duration(a.cfg.Hyprland.WaitTimeout)); err != nil {
		return nil, nil, err
	}
	slog.Debug("using hyprland sockets", "dir", sockets.Dir)
	return hyprland.NewClient(sockets.Request()), hyprland.NewListener(sockets.Events()), nil
}

func (a *app) runWorkspace(ctx context.Context) error {
	client, listener, err := a.hyprland(ctx)
	if err != nil {
		return err
	}

	emit := func(ctx context.Context, _ hyprland.Event) error {
		snap, err := client.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("read workspaces: %w", err)
		}
		return a.out.Emit(snap)
	}
	if err := emit(ctx, hyprland.Event{}); err != nil {
		return err
	}

	for _, name := range []string{
		hyprland.EventWorkspace,
		hyprland.EventCreateWorkspace,
		hyprland.EventDestroyWorkspace,
	} {
		listener.On(name, emit)
	}
	return listener.Run(ctx)
}

func (a *app) runActiveWindow(ctx context.Context) error {
	client, listener, err := a.hyprland(ctx)
	if err != nil {
		return err
	}

	win, err := client.ActiveWindow(ctx)
	if err != nil {
		return fmt.Errorf("read active window: %w", err)
	}
	if err := a.out.Emit(hyprland.ActiveWindow{Class: win.Class, Title: win.Title}); err != nil {
		return err
	}

	listener.On(hyprland.EventActiveWindow, func(_ context.Context, ev hyprland.Event) error {
		return a.out.Emit(hyprland.ParseActiveWindow(ev.Data))
	})
	return listener.Run(ctx)
}

func (a *app) runKeyboardLanguage(ctx context.Context) error {
	client, listener, err := a.hyprland(ctx)
	if err != nil {
		return err
	}

	devices, err := client.Devices(ctx)
	if err != nil {
		return fmt.Errorf("read devices: %w", err)
	}
	kb, err := hyprland.SelectKeyboard(devices.Keyboards)
	if err != nil {
		return err
	}
	slog.Debug("following keyboard", "keyboard", kb.Name)
	if err := a.out.Emit(hyprland.KeyboardLayout{Keyboard: kb.Name, Layout: kb.ActiveKeymap}); err != nil {
		return err
	}

	listener.On(hyprland.EventActiveLayout, func(_ context.Context, ev hyprland.Event) error {
		layout, ok := hyprland.ParseActiveLayout(ev.Data)
		if !ok {
			return fmt.Errorf("malformed activelayout data %q", ev.Data)
		}
		if layout.Keyboard != kb.Name {
			return nil
		}
		return a.out.Emit(layout)
	})
	return listener.Run(ctx)
}

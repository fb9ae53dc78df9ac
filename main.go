// bar-helper prints Hyprland and NetworkManager state as JSON lines for status bars.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikicat/bar-helper/internal/cli"
	"github.com/nikicat/bar-helper/internal/config"
	"github.com/nikicat/bar-helper/internal/logging"
)

// ErrNotImplemented is returned by subcommands that exist only as placeholders.
var ErrNotImplemented = errors.New("not implemented")

// version is set at link time with -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	output     string
}

// app is the per-invocation context handed to every subcommand. Clients are
// opened by the subcommand that needs them and closed before it returns.
type app struct {
	stdout io.Writer
	cfg    config.Config
	out    *cli.Formatter
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}
	var flags globalFlags

	root := &cobra.Command{
		Use:           "bar-helper",
		Short:         "Print desktop and network state as JSON lines for status bars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/bar-helper/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text (colored) or json")
	pf.StringVar(&flags.output, "output", "json", "Output format: json or text")

	root.AddCommand(
		newHyprlandCmd(a),
		newNetworkCmd(a),
		notImplementedCmd("volume", "Audio volume (not implemented)"),
		notImplementedCmd("bluetooth", "Bluetooth devices (not implemented)"),
		notImplementedCmd("mpris", "Media player state (not implemented)"),
		newServiceCmd(&flags),
		newVersionCmd(a),
	)
	return root
}

// setup loads the config, applies explicitly set flags on top of it and
// installs the logger.
func (a *app) setup(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	set := cmd.Flags()
	if set.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = flags.logLevel
	}
	if set.Changed("log-format") || cfg.LogFormat == "" {
		cfg.LogFormat = flags.logFormat
	}
	if set.Changed("output") || cfg.Output == "" {
		cfg.Output = flags.output
	}

	a.cfg = cfg.WithDefaults()
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.Setup(logging.Options{
		Level:  logging.ParseLevel(a.cfg.LogLevel),
		Format: a.cfg.LogFormat,
	})
	a.out = cli.NewFormatter(a.stdout, a.cfg.Output == "json")
	slog.Debug("starting", "command", cmd.CommandPath(), "version", buildVersion())
	return nil
}

// loadConfig loads a config file. An explicit path that doesn't exist is an error.
// A missing default path is silently ignored (returns empty config).
func loadConfig(explicitPath string) (*config.Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file not found: %s", explicitPath)
		}
		cfg, err := config.Load(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", explicitPath, err)
		}
		return cfg, nil
	}

	defaultPath := config.DefaultPath()
	if defaultPath == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", defaultPath, err)
	}
	return cfg, nil
}

func notImplementedCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return fmt.Errorf("%s: %w", use, ErrNotImplemented)
		},
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

func (v versionInfo) Text() string { return v.Version }

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			goVersion := ""
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
			}
			return a.out.Emit(versionInfo{Version: buildVersion(), GoVersion: goVersion})
		},
	}
}

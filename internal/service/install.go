// Package service manages the systemd user service that runs the network
// state notifier in the background.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const unitFileName = "bar-helper-network.service"

const unitTemplate = `[Unit]
Description=bar-helper - desktop notifications on network state changes
PartOf=graphical-session.target
After=graphical-session.target NetworkManager.service

[Service]
Type=notify
ExecStart=%s
StandardOutput=null
Restart=on-failure
RestartSec=5

[Install]
WantedBy=graphical-session.target
`

// Options configures service installation.
type Options struct {
	// ConfigPath, if set, adds --config <path> to ExecStart.
	ConfigPath string
	// Start the service immediately after enabling.
	Start bool
}

// unitDir returns the systemd user unit directory.
// Uses $XDG_CONFIG_HOME/systemd/user/ with fallback to ~/.config/systemd/user/.
func unitDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "systemd", "user"), nil
}

// UnitPath returns the full path where the unit file is (or would be) installed.
func UnitPath() (string, error) {
	dir, err := unitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, unitFileName), nil
}

// execStart builds the unit's command line for the binary at self.
func execStart(self string, opts Options) string {
	args := []string{self}
	if opts.ConfigPath != "" {
		args = append(args, "--config", opts.ConfigPath)
	}
	args = append(args, "network", "info", "--follow", "--notify")
	return strings.Join(args, " ")
}

// Install writes the systemd user unit file, reloads systemd, and enables the service.
func Install(opts Options) error {
	self, err := executableFunc()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(unitPath), 0755); err != nil {
		return fmt.Errorf("create unit dir: %w", err)
	}

	unitContent := fmt.Sprintf(unitTemplate, execStart(self, opts))
	if err := os.WriteFile(unitPath, []byte(unitContent), 0644); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}
	slog.Info("wrote unit file", "path", unitPath)

	if err := systemctlFunc("daemon-reload"); err != nil {
		return err
	}
	if err := systemctlFunc("enable", unitFileName); err != nil {
		return err
	}
	slog.Info("enabled service", "unit", unitFileName)

	if opts.Start {
		if err := systemctlFunc("start", unitFileName); err != nil {
			return err
		}
		slog.Info("started service", "unit", unitFileName)
	}
	return nil
}

// Uninstall stops and disables the service, removes the unit file, and reloads systemd.
func Uninstall() error {
	// Stop first (ignore error, may not be running).
	_ = systemctlFunc("stop", unitFileName)

	if err := systemctlFunc("disable", unitFileName); err != nil {
		return err
	}
	slog.Info("disabled service", "unit", unitFileName)

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}
	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove unit file: %w", err)
	}
	slog.Info("removed unit file", "path", unitPath)

	return systemctlFunc("daemon-reload")
}

// Status runs systemctl --user status for the service, printing output directly.
func Status() error {
	cmd := exec.Command("systemctl", "--user", "status", unitFileName)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// systemctl status exits non-zero when inactive; not an error for us.
	cmd.Run()
	return nil
}

// executableFunc and systemctlFunc are replaced in tests.
var (
	executableFunc = resolveExecutable
	systemctlFunc  = systemctlExec
)

func resolveExecutable() (string, error) {
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(self)
}

func systemctlExec(args ...string) error {
	fullArgs := append([]string{"--user"}, args...)
	cmd := exec.Command("systemctl", fullArgs...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("systemctl %s: %w", args[0], err)
	}
	return nil
}

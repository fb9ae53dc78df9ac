package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(`
log_level: debug
log_format: json
output: text
system_bus: unix:path=/run/test/system_bus_socket
connectivity:
  method: networkmanager
  host: example.org
  timeout: 500ms
  payload_size: 32
  id: 42
icons:
  dir: /usr/share/bar/icons
  ext: png
  animated_ext: apng
hyprland:
  instance: abc_123
  socket_dir: /run/user/1000/hypr
  wait_timeout: 10s
notifications:
  enabled: true
`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.Output != "text" {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if cfg.SystemBus != "unix:path=/run/test/system_bus_socket" {
		t.Errorf("SystemBus = %q", cfg.SystemBus)
	}
	if cfg.Connectivity.Method != MethodNetworkManager {
		t.Errorf("Connectivity.Method = %q, want %q", cfg.Connectivity.Method, MethodNetworkManager)
	}
	if cfg.Connectivity.Host != "example.org" {
		t.Errorf("Connectivity.Host = %q, want example.org", cfg.Connectivity.Host)
	}
	if time.Duration(cfg.Connectivity.Timeout) != 500*time.Millisecond {
		t.Errorf("Connectivity.Timeout = %v, want 500ms", time.Duration(cfg.Connectivity.Timeout))
	}
	if cfg.Connectivity.PayloadSize != 32 {
		t.Errorf("Connectivity.PayloadSize = %d, want 32", cfg.Connectivity.PayloadSize)
	}
	if cfg.Connectivity.ID != 42 {
		t.Errorf("Connectivity.ID = %d, want 42", cfg.Connectivity.ID)
	}
	if cfg.Icons.Dir != "/usr/share/bar/icons" || cfg.Icons.Ext != "png" || cfg.Icons.AnimatedExt != "apng" {
		t.Errorf("Icons = %+v", cfg.Icons)
	}
	if cfg.Hyprland.Instance != "abc_123" {
		t.Errorf("Hyprland.Instance = %q, want abc_123", cfg.Hyprland.Instance)
	}
	if cfg.Hyprland.SocketDir != "/run/user/1000/hypr" {
		t.Errorf("Hyprland.SocketDir = %q", cfg.Hyprland.SocketDir)
	}
	if time.Duration(cfg.Hyprland.WaitTimeout) != 10*time.Second {
		t.Errorf("Hyprland.WaitTimeout = %v, want 10s", time.Duration(cfg.Hyprland.WaitTimeout))
	}
	if !cfg.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = false, want true")
	}
}

func TestLoadPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(`
log_level: warn
`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	// Unset fields should be zero values
	if cfg.Connectivity.Host != "" {
		t.Errorf("Connectivity.Host = %q, want empty", cfg.Connectivity.Host)
	}
	if cfg.Notifications.Enabled != nil {
		t.Errorf("Notifications.Enabled = %v, want nil", cfg.Notifications.Enabled)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load: expected nil error for missing file, got %v", err)
	}
	if cfg.LogLevel != "" || cfg.Connectivity.Host != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(`{{{not yaml`), 0o644)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(`
connectivity:
  timeout: not-a-duration
`), 0o644)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestNotificationsFalseVsUnset(t *testing.T) {
	dir := t.TempDir()

	pathFalse := filepath.Join(dir, "false.yaml")
	os.WriteFile(pathFalse, []byte(`
notifications:
  enabled: false
`), 0o644)

	cfgFalse, err := Load(pathFalse)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfgFalse.Notifications.Enabled == nil {
		t.Fatal("enabled: false should produce non-nil pointer")
	}
	if cfgFalse.NotificationsEnabled() {
		t.Error("NotificationsEnabled() = true, want false")
	}

	pathUnset := filepath.Join(dir, "unset.yaml")
	os.WriteFile(pathUnset, []byte(`
log_level: info
`), 0o644)

	cfgUnset, err := Load(pathUnset)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfgUnset.Notifications.Enabled != nil {
		t.Errorf("unset notifications should be nil, got %v", *cfgUnset.Notifications.Enabled)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got := DefaultPath()
	want := "/custom/config/bar-helper/config.yaml"
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestWithDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	cfg := &Config{}
	out := cfg.WithDefaults()

	if out.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", out.LogLevel)
	}
	if out.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", out.LogFormat)
	}
	if out.Output != "json" {
		t.Errorf("Output = %q, want json", out.Output)
	}
	if out.Connectivity.Method != MethodICMP {
		t.Errorf("Connectivity.Method = %q, want %q", out.Connectivity.Method, MethodICMP)
	}
	if out.Connectivity.Host != DefaultHost {
		t.Errorf("Connectivity.Host = %q, want %q", out.Connectivity.Host, DefaultHost)
	}
	if time.Duration(out.Connectivity.Timeout) != DefaultTimeout {
		t.Errorf("Connectivity.Timeout = %v, want %v", time.Duration(out.Connectivity.Timeout), DefaultTimeout)
	}
	if out.Connectivity.PayloadSize != 56 {
		t.Errorf("Connectivity.PayloadSize = %d, want 56", out.Connectivity.PayloadSize)
	}
	if out.Connectivity.ID != 111 {
		t.Errorf("Connectivity.ID = %d, want 111", out.Connectivity.ID)
	}
	if out.Icons.Dir != "/custom/data/bar-helper/icons" {
		t.Errorf("Icons.Dir = %q", out.Icons.Dir)
	}
	if out.Icons.Ext != "svg" || out.Icons.AnimatedExt != "gif" {
		t.Errorf("Icons = %+v, want svg/gif", out.Icons)
	}

	// Explicit values survive.
	cfg = &Config{Connectivity: ConnectivityConfig{Host: "1.1.1.1"}}
	if got := cfg.WithDefaults().Connectivity.Host; got != "1.1.1.1" {
		t.Errorf("Connectivity.Host = %q, want 1.1.1.1", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{}.WithDefaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:   "networkmanager method",
			mutate: func(c *Config) { c.Connectivity.Method = MethodNetworkManager },
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: "log_format",
		},
		{
			name:    "unknown output",
			mutate:  func(c *Config) { c.Output = "yaml" },
			wantErr: "output",
		},
		{
			name:    "unknown method",
			mutate:  func(c *Config) { c.Connectivity.Method = "http" },
			wantErr: "connectivity.method",
		},
		{
			name:    "identifier too large",
			mutate:  func(c *Config) { c.Connectivity.ID = 70000 },
			wantErr: "16 bits",
		},
		{
			name:    "payload too large",
			mutate:  func(c *Config) { c.Connectivity.PayloadSize = 70000 },
			wantErr: "payload_size",
		},
		{
			name:    "negative wait",
			mutate:  func(c *Config) { c.Hyprland.WaitTimeout = Duration(-time.Second) },
			wantErr: "wait_timeout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			} else {
				if err == nil {
					t.Fatalf("Validate() = nil, want error containing %q", tc.wantErr)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("Validate() = %q, want containing %q", err, tc.wantErr)
				}
			}
		})
	}
}

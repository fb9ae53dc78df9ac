package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML unmarshalling for human-readable strings.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Connectivity methods.
const (
	MethodICMP           = "icmp"
	MethodNetworkManager = "networkmanager"
)

// ConnectivityConfig configures the global connectivity probe.
type ConnectivityConfig struct {
	Method      string   `yaml:"method"`
	Host        string   `yaml:"host"`
	Timeout     Duration `yaml:"timeout"`
	PayloadSize int      `yaml:"payload_size"`
	ID          int      `yaml:"id"`
}

// IconsConfig locates the icon assets referenced by network info.
type IconsConfig struct {
	Dir         string `yaml:"dir"`
	Ext         string `yaml:"ext"`
	AnimatedExt string `yaml:"animated_ext"`
}

// HyprlandConfig overrides Hyprland socket discovery.
type HyprlandConfig struct {
	Instance    string   `yaml:"instance"`
	SocketDir   string   `yaml:"socket_dir"`
	WaitTimeout Duration `yaml:"wait_timeout"`
}

// NotificationsConfig controls desktop notifications on network state changes.
type NotificationsConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// Config is the top-level configuration file structure.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Output    string `yaml:"output"`

	// Bus addresses; empty means the well-known system/session bus.
	SystemBus  string `yaml:"system_bus"`
	SessionBus string `yaml:"session_bus"`

	Connectivity  ConnectivityConfig  `yaml:"connectivity"`
	Icons         IconsConfig         `yaml:"icons"`
	Hyprland      HyprlandConfig      `yaml:"hyprland"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// Defaults.
const (
	DefaultHost        = "google.fr"
	DefaultTimeout     = 2 * time.Second
	DefaultPayloadSize = 56
	DefaultID          = 111
)

// WithDefaults returns a copy of cfg with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Output == "" {
		c.Output = "json"
	}
	if c.Connectivity.Method == "" {
		c.Connectivity.Method = MethodICMP
	}
	if c.Connectivity.Host == "" {
		c.Connectivity.Host = DefaultHost
	}
	if c.Connectivity.Timeout == 0 {
		c.Connectivity.Timeout = Duration(DefaultTimeout)
	}
	if c.Connectivity.PayloadSize == 0 {
		c.Connectivity.PayloadSize = DefaultPayloadSize
	}
	if c.Connectivity.ID == 0 {
		c.Connectivity.ID = DefaultID
	}
	if c.Icons.Dir == "" {
		c.Icons.Dir = defaultIconDir()
	}
	if c.Icons.Ext == "" {
		c.Icons.Ext = "svg"
	}
	if c.Icons.AnimatedExt == "" {
		c.Icons.AnimatedExt = "gif"
	}
	return c
}

// NotificationsEnabled reports whether notifications were switched on in the file.
func (c Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled != nil && *c.Notifications.Enabled
}

// Validate checks a config that has already been through WithDefaults.
func (c Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format: must be text or json, got %q", c.LogFormat))
	}
	switch c.Output {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("output: must be text or json, got %q", c.Output))
	}
	switch c.Connectivity.Method {
	case MethodICMP, MethodNetworkManager:
	default:
		errs = append(errs, fmt.Errorf("connectivity.method: must be %s or %s, got %q",
			MethodICMP, MethodNetworkManager, c.Connectivity.Method))
	}
	if c.Connectivity.Timeout < 0 {
		errs = append(errs, errors.New("connectivity.timeout: must not be negative"))
	}
	if c.Connectivity.PayloadSize < 0 || c.Connectivity.PayloadSize > 65507 {
		errs = append(errs, fmt.Errorf("connectivity.payload_size: %d out of range", c.Connectivity.PayloadSize))
	}
	if c.Connectivity.ID < 0 || c.Connectivity.ID > 0xffff {
		errs = append(errs, fmt.Errorf("connectivity.id: %d does not fit in 16 bits", c.Connectivity.ID))
	}
	if c.Hyprland.WaitTimeout < 0 {
		errs = append(errs, errors.New("hyprland.wait_timeout: must not be negative"))
	}
	return errors.Join(errs...)
}

func defaultIconDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "icons"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "bar-helper", "icons")
}

// DefaultPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "bar-helper", "config.yaml")
}

// Load reads and parses a YAML config file. If the file does not exist,
// it returns an empty Config and a nil error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

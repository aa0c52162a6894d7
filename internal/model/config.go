package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServiceConfig points the taskpane at the remote AI text service.
type ServiceConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the per-request timeout.
func (s ServiceConfig) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// PollConfig controls how the open message body is kept in sync.
type PollConfig struct {
	IntervalMS   int `mapstructure:"interval_ms" yaml:"interval_ms"`
	PreviewLimit int `mapstructure:"preview_limit" yaml:"preview_limit"`
}

// Interval returns the polling interval, defaulting to one second.
func (p PollConfig) Interval() time.Duration {
	if p.IntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// HostSelection names the active host profile.
type HostSelection struct {
	Active string `mapstructure:"active" yaml:"active"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Host    HostSelection `mapstructure:"host" yaml:"host"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskpane/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskpane", "config.yaml")
}

// DefaultDataDir returns the directory for the database and log file.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "taskpane")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Service: ServiceConfig{
			BaseURL:    "http://localhost:3000",
			TimeoutSec: 60,
		},
		Poll: PollConfig{
			IntervalMS:   1000,
			PreviewLimit: 500,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(DefaultDataDir(), "taskpane.log"),
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// TASKPANE_* environment variables override file values (for example
// TASKPANE_SERVICE_BASE_URL). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskpane")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaultAppConfig()
	v.SetDefault("service.base_url", def.Service.BaseURL)
	v.SetDefault("service.timeout_sec", def.Service.TimeoutSec)
	v.SetDefault("poll.interval_ms", def.Poll.IntervalMS)
	v.SetDefault("poll.preview_limit", def.Poll.PreviewLimit)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("host.active", "")

	if err := v.ReadInConfig(); err != nil {
		_, missingFile := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !missingFile && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Service.BaseURL = strings.TrimRight(cfg.Service.BaseURL, "/")
	if cfg.Poll.PreviewLimit <= 0 {
		cfg.Poll.PreviewLimit = def.Poll.PreviewLimit
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("service", cfg.Service)
	v.Set("poll", cfg.Poll)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)
	v.Set("host", cfg.Host)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Identity IdentityConfig `mapstructure:"identity"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// IdentityConfig holds the device identity file location.
type IdentityConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	ConfirmDelayMs int    `mapstructure:"confirm_delay_ms"`
}

// Load reads configuration from file and env. Env var overrides use prefix SIGNBOOK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "signbook", "signbook.db"))
	v.SetDefault("identity.path", filepath.Join(os.Getenv("HOME"), ".config", "signbook", "device.json"))
	v.SetDefault("ui.date_format", "02/01 15:04")
	v.SetDefault("ui.confirm_delay_ms", 600)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SIGNBOOK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "signbook"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SIGNBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.ConfirmDelayMs < 0 {
		c.UI.ConfirmDelayMs = 0
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("SIGNBOOK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "signbook", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("identity.path", cfg.Identity.Path)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.confirm_delay_ms", cfg.UI.ConfirmDelayMs)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

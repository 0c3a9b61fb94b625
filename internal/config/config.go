// Package config loads dashboard settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robby/ghtriage/internal/api"
	"github.com/robby/ghtriage/internal/auth"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (GHTRIAGE_API_BASE_URL, ...).
const EnvPrefix = "GHTRIAGE"

// Config represents the full dashboard configuration
type Config struct {
	API              APIConfig `mapstructure:"api"`
	Organization     string    `mapstructure:"organization"`
	StartRoute       string    `mapstructure:"start_route"`
	MessageTypes     []string  `mapstructure:"message_types"`
	TriggerLocations []string  `mapstructure:"trigger_locations"`
	Log              LogConfig `mapstructure:"log"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	TokenEnv   string `mapstructure:"token_env"`    // Environment variable holding the bearer token
	UseGhToken bool   `mapstructure:"use_gh_token"` // Fall back to `gh auth token`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	File  string `mapstructure:"file"` // Empty disables logging
	Level string `mapstructure:"level"`
}

// Defaults used when a setting is absent.
const (
	DefaultBaseURL      = api.DefaultBaseURL
	DefaultOrganization = "driftyco"
	DefaultTokenEnv     = auth.DefaultTokenEnv
)

var (
	DefaultMessageTypes     = []string{"forum_question", "needs_reply", "feature_request", "duplicate", "resubmit", "custom"}
	DefaultTriggerLocations = []string{"maintenance"}
)

// NewViper prepares a viper instance reading cfgFile, or .ghtriage.yaml from
// the working directory or $XDG_CONFIG_HOME/ghtriage when cfgFile is empty.
// A missing default config file is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".ghtriage")
		v.SetConfigType("yaml")
		if cwd, err := os.Getwd(); err == nil {
			v.AddConfigPath(cwd)
		}
		if dir := userConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about.
	for _, key := range []string{
		"api.base_url", "api.token_env", "api.use_gh_token",
		"organization", "start_route", "log.file", "log.level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// userConfigDir returns $XDG_CONFIG_HOME/ghtriage (or ~/.config/ghtriage).
func userConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ghtriage")
}

// Load unmarshals v into a Config, applies defaults and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.TokenEnv == "" {
		cfg.API.TokenEnv = DefaultTokenEnv
	}
	if cfg.Organization == "" {
		cfg.Organization = DefaultOrganization
	}
	if cfg.StartRoute == "" {
		cfg.StartRoute = "/"
	}
	if len(cfg.MessageTypes) == 0 {
		cfg.MessageTypes = append([]string(nil), DefaultMessageTypes...)
	}
	if len(cfg.TriggerLocations) == 0 {
		cfg.TriggerLocations = append([]string(nil), DefaultTriggerLocations...)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if strings.Contains(c.Organization, "/") {
		return fmt.Errorf("organization %q must not contain '/'", c.Organization)
	}
	for _, mt := range c.MessageTypes {
		if strings.TrimSpace(mt) == "" {
			return errors.New("message_types must not contain empty entries")
		}
	}
	return nil
}

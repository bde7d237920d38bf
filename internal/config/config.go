// Package config handles the XDG configuration directory and the settings
// read from config.yaml and GROCERY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "grocery"

	// SettingsFile is the settings filename inside the config directory.
	SettingsFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides, e.g. GROCERY_ENDPOINT.
	EnvPrefix = "GROCERY"
)

// Source names.
const (
	SourceHTTP        = "http"
	SourceGoogleTasks = "googletasks"
)

// Settings are the user-tunable values.
type Settings struct {
	// Source selects the retrieval backend: "http" or "googletasks".
	Source string `yaml:"source" mapstructure:"source"`

	// Endpoint is the address of the item list for the http source.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Token is an optional bearer token for the http source.
	Token string `yaml:"token,omitempty" mapstructure:"token"`

	// GoogleList names the Google Tasks list to import. Empty means the
	// default list.
	GoogleList string `yaml:"google_list,omitempty" mapstructure:"google_list"`

	// LoadDelay is waited before the initial fetch.
	LoadDelay time.Duration `yaml:"load_delay" mapstructure:"load_delay"`

	// Timeout bounds a single retrieval request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Addr is the listen address for serve.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Source:   SourceHTTP,
		Endpoint: "http://localhost:3500/items",
		Timeout:  5 * time.Second,
		Addr:     "localhost:8080",
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are loaded from config.yaml and the environment.
	Settings Settings

	// Log is the logger commands should use. Nil means no logging.
	Log *zap.Logger
}

// New creates a new Config with the default or specified config directory
// and default settings. If configDir is empty, uses XDG_CONFIG_HOME/grocery
// or $HOME/.config/grocery.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load is like New but also reads config.yaml from the directory and
// applies GROCERY_* environment overrides. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, cfg.Settings)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(cfg.SettingsPath()); err == nil {
		v.SetConfigFile(cfg.SettingsPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", SettingsFile, err)
	}

	if err := v.Unmarshal(&cfg.Settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, s Settings) {
	v.SetDefault("source", s.Source)
	v.SetDefault("endpoint", s.Endpoint)
	v.SetDefault("token", s.Token)
	v.SetDefault("google_list", s.GoogleList)
	v.SetDefault("load_delay", s.LoadDelay)
	v.SetDefault("timeout", s.Timeout)
	v.SetDefault("addr", s.Addr)
}

// Validate checks the settings for values no backend can work with.
func (s Settings) Validate() error {
	switch s.Source {
	case SourceHTTP:
		if strings.TrimSpace(s.Endpoint) == "" {
			return errors.New("endpoint required for http source")
		}
	case SourceGoogleTasks:
	default:
		return fmt.Errorf("unknown source: %s", s.Source)
	}
	if s.LoadDelay < 0 {
		return fmt.Errorf("invalid load_delay: %s", s.LoadDelay)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", s.Timeout)
	}
	return nil
}

// MarshalYAML renders durations as strings so config.yaml stays readable.
func (s Settings) MarshalYAML() (interface{}, error) {
	type plain struct {
		Source     string `yaml:"source"`
		Endpoint   string `yaml:"endpoint"`
		Token      string `yaml:"token,omitempty"`
		GoogleList string `yaml:"google_list,omitempty"`
		LoadDelay  string `yaml:"load_delay"`
		Timeout    string `yaml:"timeout"`
		Addr       string `yaml:"addr"`
	}
	return plain{
		Source:     s.Source,
		Endpoint:   s.Endpoint,
		Token:      s.Token,
		GoogleList: s.GoogleList,
		LoadDelay:  s.LoadDelay.String(),
		Timeout:    s.Timeout.String(),
		Addr:       s.Addr,
	}, nil
}

// EncodeSettings renders settings as YAML.
func EncodeSettings(s Settings) ([]byte, error) {
	return yaml.Marshal(s)
}

// Logger returns the configured logger, or a no-op logger.
func (c *Config) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// WriteSettings writes the current settings to config.yaml.
func (c *Config) WriteSettings() error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := EncodeSettings(c.Settings)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SettingsPath(), data, 0600)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// Package config loads the application settings from config.yml in the
// config directory, overlaid by config.local.yml when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// FileName is the main config file inside the config directory.
	FileName = "config.yml"

	// LocalFileName is the optional overlay for machine-local overrides.
	LocalFileName = "config.local.yml"

	// SessionFile is the stored sign-in session.
	SessionFile = "session.json"
)

type Database struct {
	Path            string `config:"path"`
	CompactOnLaunch bool   `config:"compact_on_launch"`
}

type Customer struct {
	BaseURL        string `config:"base_url"`
	TimeoutSeconds int    `config:"timeout_seconds"`
}

type Log struct {
	Level string `config:"level"`
	File  string `config:"file"`
}

type UI struct {
	Theme          string `config:"theme"`
	SplashDelayMs  int    `config:"splash_delay_ms"`
	StartupDelayMs int    `config:"startup_delay_ms"`
}

// OAuthClient holds the credentials of one federated sign-in provider.
type OAuthClient struct {
	ClientID     string `config:"client_id"`
	ClientSecret string `config:"client_secret"`
}

type Auth struct {
	FirebaseAPIKey string      `config:"firebase_api_key"`
	IdentityURL    string      `config:"identity_url"`
	JwksURL        string      `config:"jwks_url"`
	ProjectID      string      `config:"project_id"` // expected ID token audience
	Google         OAuthClient `config:"google"`
	GitHub         OAuthClient `config:"github"`
	Apple          OAuthClient `config:"apple"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path. It is not read from yaml.
	Dir string `config:"-"`

	Database Database `config:"database"`
	Customer Customer `config:"customer"`
	Log      Log      `config:"log"`
	UI       UI       `config:"ui"`
	Auth     Auth     `config:"auth"`
}

// Default returns the settings used when no config file exists.
func Default(dir string) *Config {
	return &Config{
		Dir: dir,
		Database: Database{
			Path:            filepath.Join(dir, "todo.db"),
			CompactOnLaunch: true,
		},
		Customer: Customer{
			BaseURL:        "http://10.0.2.2:8080",
			TimeoutSeconds: 10,
		},
		Log: Log{
			Level: "info",
			File:  filepath.Join(dir, "todo.log"),
		},
		UI: UI{
			Theme:          "classic",
			SplashDelayMs:  3000,
			StartupDelayMs: 500,
		},
		Auth: Auth{
			IdentityURL: "https://identitytoolkit.googleapis.com/v1",
			JwksURL:     "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com",
		},
	}
}

// Load reads config.yml (and config.local.yml) from dir on top of the
// defaults. If dir is empty, DefaultDir is used. A missing config.yml is
// not an error.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	cfg := Default(dir)

	c := config.New(AppName)
	c.WithOptions(func(opt *config.Options) {
		opt.ParseEnv = true
		opt.DecoderConfig.TagName = "config"
	})
	c.AddDriver(yaml.Driver)

	if err := c.LoadExists(filepath.Join(dir, FileName)); err != nil {
		return nil, fmt.Errorf("load %s: %w", FileName, err)
	}
	if err := c.LoadExists(filepath.Join(dir, LocalFileName)); err != nil {
		return nil, fmt.Errorf("load %s: %w", LocalFileName, err)
	}
	if len(c.Data()) == 0 {
		return cfg, nil
	}
	if err := c.BindStruct("", cfg); err != nil {
		return nil, fmt.Errorf("bind config: %w", err)
	}
	cfg.Dir = dir
	return cfg, nil
}

// DefaultDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored sign-in session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

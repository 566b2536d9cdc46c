// Package config loads taskwell configuration from file, environment and
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name under the config root.
	AppName = "taskwell"
	// ConfigFile is the configuration filename.
	ConfigFile = "config.yaml"
	// KeyringFile is the credential store filename.
	KeyringFile = "keyring.db"

	// EnvAPIURL overrides the API base URL.
	EnvAPIURL = "TASKWELL_API_URL"

	// DefaultAPIURL is used when neither flag, env nor file set one.
	DefaultAPIURL = "http://127.0.0.1:8000/api"
)

// Config holds the client configuration.
type Config struct {
	// APIURL is the base URL of the task-scheduler API.
	APIURL string `yaml:"api_url"`
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// KeyringPath returns the path of the credential store.
func KeyringPath() string {
	return filepath.Join(Dir(), KeyringFile)
}

// Load reads the config file at path (the default location when path is
// empty) and applies environment overrides. A missing file yields defaults.
// Precedence: env > file > default; flags are applied by the caller on top.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(Dir(), ConfigFile)
	}

	cfg := &Config{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if cfg.APIURL == "" {
			cfg.APIURL = DefaultAPIURL
		}
	}

	if env := os.Getenv(EnvAPIURL); env != "" {
		cfg.APIURL = env
	}
	return cfg, nil
}

// Save writes the config back to its default location.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(Dir(), ConfigFile), data, 0600)
}

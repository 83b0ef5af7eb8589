// Package config loads the podlet tool configuration.
//
// The configuration lives in podlet.yaml and controls where object and
// sandbox state is kept, which namespace commands default to, and how the
// watch view judges volume-sync freshness. Everything has a default; a
// missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "podlet.yaml"

// Defaults applied to unset fields.
const (
	DefaultStateDir     = ".podlet"
	DefaultSyncInterval = 1 * time.Minute
)

// Config holds the podlet tool configuration.
type Config struct {
	// StateDir is the directory holding stored objects and pod sandboxes.
	StateDir string `yaml:"stateDir"`

	// Namespace is the namespace commands operate on when -n is not given.
	Namespace string `yaml:"namespace"`

	// Editor overrides $EDITOR for the edit command.
	Editor string `yaml:"editor,omitempty"`

	// SyncInterval is how often the watch view re-synchronizes volume
	// files, e.g. "30s" or "2m".
	SyncInterval string `yaml:"syncInterval"`

	// Backup configures the optional S3 state backup target.
	Backup BackupConfig `yaml:"backup,omitempty"`
}

// BackupConfig points at an S3-compatible bucket for state archives.
type BackupConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if c.Namespace == "" {
		c.Namespace = "default"
	}
	if c.SyncInterval == "" {
		c.SyncInterval = DefaultSyncInterval.String()
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if errs := validation.IsDNS1123Label(c.Namespace); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", c.Namespace, errs[0])
	}
	if _, err := time.ParseDuration(c.SyncInterval); err != nil {
		return fmt.Errorf("invalid syncInterval %q: %w", c.SyncInterval, err)
	}
	return nil
}

// SyncEvery returns the parsed sync interval. Validate must have accepted
// the config first.
func (c *Config) SyncEvery() time.Duration {
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil {
		return DefaultSyncInterval
	}
	return d
}

// EditorCommand resolves the editor to use: config, then $EDITOR, then vi.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	return "vi"
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the config at path, or when path is empty, looks for
// podlet.yaml in the current directory and falls back to pure defaults when
// no file exists.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	found, err := FindConfigFile()
	if err != nil {
		return Default(), nil
	}
	return Load(found)
}

// FindConfigFile looks for podlet.yaml in the current working directory.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	path := filepath.Join(cwd, DefaultConfigFilename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
	}
	return path, nil
}

// Write marshals the configuration to a file, used by the init wizard.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

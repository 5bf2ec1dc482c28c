package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Path returns the user config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

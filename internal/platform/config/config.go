package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ServerURL is the base URL of the remote scouting authority.
	ServerURL string `yaml:"server_url"`
	// Scouter is the identity issued by the auth collaborator.
	Scouter string `yaml:"scouter"`
	// DataDir holds the local session database and plugin manifests.
	DataDir string `yaml:"data_dir"`
	// Season selects which payload schema plugin supplies defaults.
	Season string `yaml:"season"`

	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	ProbeTimeout     time.Duration `yaml:"probe_timeout"`

	DBPath    string `yaml:"-"`
	PluginDir string `yaml:"-"`
}

const (
	defaultAutosaveInterval = 3 * time.Second
	defaultProbeTimeout     = 4 * time.Second
)

// Load reads the YAML config at path. A missing file is not an error:
// defaults are returned so the engine can run offline-only out of the box.
func Load(path, dataDir string) (Config, error) {
	cfg := Config{DataDir: dataDir}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config: %w", err)
			}
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() (Config, error) {
	if c.DataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	if c.AutosaveInterval <= 0 {
		c.AutosaveInterval = defaultAutosaveInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.Season == "" {
		c.Season = "reference"
	}
	c.DBPath = filepath.Join(c.DataDir, "matchscout.db")
	c.PluginDir = filepath.Join(c.DataDir, "plugins")
	return c, nil
}

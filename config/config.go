package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir          string   `toml:"DataDir"`
	SnapshotInterval uint64   `toml:"SnapshotInterval"`
	QueueSize        int      `toml:"QueueSize"`
	NetworkName      string   `toml:"NetworkName"`
	LogLevel         string   `toml:"LogLevel"`
	LogFile          string   `toml:"LogFile"`
	ProbeEndpoints   []string `toml:"ProbeEndpoints"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		DataDir:          "./paych-data",
		SnapshotInterval: 1000,
		QueueSize:        64,
		NetworkName:      "paych-local",
		LogLevel:         "info",
		ProbeEndpoints:   []string{},
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = Default().SnapshotInterval
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = Default().QueueSize
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = Default().NetworkName
	}
	if cfg.ProbeEndpoints == nil {
		cfg.ProbeEndpoints = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the node cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	for _, endpoint := range c.ProbeEndpoints {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("config: probe endpoint %q is not an http(s) URL", endpoint)
		}
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := Default()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the language-server configuration
type Config struct {
	// Catalogue settings
	Catalog struct {
		DataDir string `toml:"data_dir"`
	} `toml:"catalog"`

	// Macro source lookup
	Macros struct {
		Dirs []string `toml:"dirs"`
	} `toml:"macros"`

	// Logging settings
	Log struct {
		Verbose bool `toml:"verbose"`
	} `toml:"log"`

	// Transport settings
	Server struct {
		Listen string `toml:"listen"` // WebSocket listen address; empty = stdio
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Catalog.DataDir = ""
	cfg.Macros.Dirs = nil
	cfg.Log.Verbose = false
	cfg.Server.Listen = ""
	return cfg
}

// DefaultPath is the config file looked for in the working directory
const DefaultPath = "hlasm-lsp.toml"

// LoadFrom loads configuration from the specified file. A missing file is not
// an error and yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

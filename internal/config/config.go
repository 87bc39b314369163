// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrogolib/log"
)

// File is the content of an optional uvm.toml config file.
type File struct {
	Log     LogConfig     `toml:"log"`
	Trace   FormatConfig  `toml:"trace"`
	Result  FormatConfig  `toml:"result"`
	Listing ListingConfig `toml:"listing"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Debug bool `toml:"debug"`
	Quiet bool `toml:"quiet"`
}

// FormatConfig selects an output file format.
type FormatConfig struct {
	Format string `toml:"format"`
}

// ListingConfig configures the disassembler listing.
type ListingConfig struct {
	HexComments    *bool `toml:"hex-comments"`
	OffsetComments *bool `toml:"offset-comments"`
}

// Load parses a TOML config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file '%s': %w", path, err)
	}

	var cfg File
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key '%s' in '%s'", undecoded[0], path)
	}
	return &cfg, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

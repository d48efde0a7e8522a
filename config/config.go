// Package config handles luavm.toml runtime configuration. A luavm.yaml
// with the same keys is read when no TOML file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chazu/luavm/state"
)

const (
	TOMLFile = "luavm.toml"
	YAMLFile = "luavm.yaml"
)

// Config represents a luavm.toml file.
type Config struct {
	VM    VMConfig    `toml:"vm" yaml:"vm"`
	Cache CacheConfig `toml:"cache" yaml:"cache"`
	Log   LogConfig   `toml:"log" yaml:"log"`

	// Dir is the directory containing the config file (set at load time).
	Dir string `toml:"-" yaml:"-"`
	// File is the path of the file that was read.
	File string `toml:"-" yaml:"-"`
}

// VMConfig bounds what a single state may consume.
type VMConfig struct {
	MaxStackSlots     int   `toml:"max-stack-slots" yaml:"max-stack-slots"`
	MaxCallDepth      int   `toml:"max-call-depth" yaml:"max-call-depth"`
	InstructionBudget int64 `toml:"instruction-budget" yaml:"instruction-budget"`
}

// CacheConfig configures the decoded prototype cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"` // sqlite file; empty keeps the cache in memory
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses the config file in dir, preferring luavm.toml.
func Load(dir string) (*Config, error) {
	var c Config

	path := filepath.Join(dir, TOMLFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case os.IsNotExist(err):
		path = filepath.Join(dir, YAMLFile)
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	c.File = path

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find a config file, then loads
// and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range []string{TOMLFile, YAMLFile} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return Load(dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	switch {
	case c.VM.MaxStackSlots < 0:
		return fmt.Errorf("vm.max-stack-slots must not be negative")
	case c.VM.MaxCallDepth < 0:
		return fmt.Errorf("vm.max-call-depth must not be negative")
	case c.VM.InstructionBudget < 0:
		return fmt.Errorf("vm.instruction-budget must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.VM.MaxStackSlots == 0 {
		c.VM.MaxStackSlots = state.DefaultMaxStackSlots
	}
	if c.VM.MaxCallDepth == 0 {
		c.VM.MaxCallDepth = state.DefaultMaxCallDepth
	}
}

// CachePath returns the absolute sqlite path of the cache, or "" for an
// in-memory cache.
func (c *Config) CachePath() string {
	if c.Cache.Path == "" || filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(c.Dir, c.Cache.Path)
}

// StateOptions translates the [vm] section into state options.
func (c *Config) StateOptions() []state.Option {
	opts := []state.Option{
		state.WithMaxStackSlots(c.VM.MaxStackSlots),
		state.WithMaxCallDepth(c.VM.MaxCallDepth),
	}
	if c.VM.InstructionBudget > 0 {
		opts = append(opts, state.WithInstructionBudget(c.VM.InstructionBudget))
	}
	return opts
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file looked up from the working
// directory towards the filesystem root.
const FileName = "aivigen.toml"

// Environment overrides, applied after the file and before flags.
const (
	EnvSourceDir    = "AIVIGEN_SOURCE_DIR"
	EnvOutputDir    = "AIVIGEN_OUTPUT_DIR"
	EnvModulePrefix = "AIVIGEN_MODULE_PREFIX"
)

// Config is the full generator configuration. Every key is optional;
// zero values fall back to the defaults below.
type Config struct {
	Source SourceConfig `toml:"source"`
	Output OutputConfig `toml:"output"`
	Emit   EmitConfig   `toml:"emit"`
}

// SourceConfig describes where definition files live.
type SourceConfig struct {
	Dir   string `toml:"dir"`   // definition-file directory
	Ext   string `toml:"ext"`   // definition-file extension
	Index string `toml:"index"` // aggregator file name to skip
}

// OutputConfig describes the generated-test root.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// EmitConfig controls generated module names and file extensions.
type EmitConfig struct {
	ModulePrefix string `toml:"module_prefix"`
	Ext          string `toml:"ext"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			Dir:   "crates/aivi/src/stdlib",
			Ext:   ".rs",
			Index: "mod.rs",
		},
		Output: OutputConfig{
			Dir: "integration-tests/stdlib",
		},
		Emit: EmitConfig{
			ModulePrefix: "integrationTests.stdlib",
			Ext:          ".aivi",
		},
	}
}

// Find walks up from startDir looking for the nearest aivigen.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Keys present in the file must hold
// usable values; absent keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if meta.IsDefined("source", "dir") && strings.TrimSpace(cfg.Source.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [source].dir must not be empty", path)
	}
	if meta.IsDefined("source", "ext") && !strings.HasPrefix(cfg.Source.Ext, ".") {
		return Config{}, fmt.Errorf("%s: [source].ext must start with a dot", path)
	}
	if meta.IsDefined("source", "index") && strings.TrimSpace(cfg.Source.Index) == "" {
		return Config{}, fmt.Errorf("%s: [source].index must not be empty", path)
	}
	if meta.IsDefined("output", "dir") && strings.TrimSpace(cfg.Output.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [output].dir must not be empty", path)
	}
	if meta.IsDefined("emit", "module_prefix") && strings.TrimSpace(cfg.Emit.ModulePrefix) == "" {
		return Config{}, fmt.Errorf("%s: [emit].module_prefix must not be empty", path)
	}
	if meta.IsDefined("emit", "ext") && !strings.HasPrefix(cfg.Emit.Ext, ".") {
		return Config{}, fmt.Errorf("%s: [emit].ext must start with a dot", path)
	}
	return cfg, nil
}

// Discover resolves the effective configuration: the explicit path when
// given, otherwise the nearest aivigen.toml, otherwise pure defaults.
// Environment overrides apply in every case.
func Discover(explicitPath, startDir string) (Config, error) {
	if explicitPath != "" {
		cfg, err := Load(explicitPath)
		if err != nil {
			return Config{}, err
		}
		cfg.applyEnv()
		return cfg, nil
	}

	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if ok {
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSourceDir); v != "" {
		c.Source.Dir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(EnvModulePrefix); v != "" {
		c.Emit.ModulePrefix = v
	}
}

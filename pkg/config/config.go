// Package config loads the tool configuration from defaults, an optional
// TOML file, environment variables, and command-line flags, in ascending
// priority.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFile is the optional per-tree configuration file.
const ConfigFile = "swift-dependency-graph.toml"

// EnvPrefix namespaces environment overrides,
// e.g. SWIFT_DEP_GRAPH_PORT=9090.
const EnvPrefix = "SWIFT_DEP_GRAPH_"

// Augment holds the external-tool enrichment knobs.
type Augment struct {
	Enabled  bool `koanf:"enabled"`
	AllRoots bool `koanf:"all-roots"`
}

// Config holds all configuration for the application.
type Config struct {
	Root          string  `koanf:"root"`
	ShowTargets   bool    `koanf:"show-targets"`
	HideTransient bool    `koanf:"hide-transient"`
	StableIDs     bool    `koanf:"stable-ids"`
	Augment       Augment `koanf:"augment"`
	Analyze       bool    `koanf:"analyze"`
	InternalOnly  bool    `koanf:"internal-only"`
	Format        string  `koanf:"format"`
	Output        string  `koanf:"output"`
	WebMode       bool    `koanf:"web"`
	Port          int     `koanf:"port"`
	Watch         bool    `koanf:"watch"`
	OpenBrowser   bool    `koanf:"open"`
	Verbosity     int     `koanf:"verbose"`
	LogJSON       bool    `koanf:"log-json"`
}

// Load resolves configuration. Priority: flags > env > config file >
// defaults. The config file is optional; a missing file is not an error.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"root":              ".",
		"show-targets":      false,
		"hide-transient":    false,
		"stable-ids":        false,
		"augment.enabled":   true,
		"augment.all-roots": true,
		"analyze":           false,
		"internal-only":     false,
		"format":            "json",
		"output":            "",
		"web":               false,
		"port":              8080,
		"watch":             false,
		"open":              true,
		"verbose":           0,
		"log-json":          false,
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Optional file; ignore a missing one.
	_ = k.Load(file.Provider(ConfigFile), toml.Parser())

	// Double underscore nests (AUGMENT__ALL_ROOTS -> augment.all-roots),
	// single underscore maps to the dash in flat keys (SHOW_TARGETS ->
	// show-targets).
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		return strings.ReplaceAll(key, "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Format != "json" && cfg.Format != "dot" {
		return nil, fmt.Errorf("unsupported export format %q (want json or dot)", cfg.Format)
	}

	return &cfg, nil
}

// confMap adapts a plain map to koanf's Provider interface.
type confMap struct {
	m map[string]interface{}
}

func mapProvider(m map[string]interface{}) *confMap {
	return &confMap{m: m}
}

func (p *confMap) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *confMap) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

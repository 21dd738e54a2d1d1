// Package config loads xcpatch project configuration: the root group,
// section sentinel overrides, file-kind rules, and discovery globs.
// Configuration is optional; the built-in defaults describe a stock
// pbxproj project.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ndkhanh/xcpatch/pkg/manifest"
)

// KindRule maps a file suffix to its catalog content-type tag and
// whether files of that kind join the compile phase.
type KindRule struct {
	Type    string `mapstructure:"type" yaml:"type" json:"type"`
	Compile bool   `mapstructure:"compile" yaml:"compile" json:"compile"`
}

// SectionMarkers overrides the sentinel pair of one section.
type SectionMarkers struct {
	Begin string `mapstructure:"begin" yaml:"begin" json:"begin"`
	End   string `mapstructure:"end" yaml:"end" json:"end"`
}

// DiscoveryConfig filters the filesystem walk.
type DiscoveryConfig struct {
	Include []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// Config is the project-level configuration.
type Config struct {
	// RootGroup is the identifier of the group that receives
	// path-less entries. Empty enables mainGroup auto-detection.
	RootGroup string `mapstructure:"root_group" yaml:"root_group" json:"root_group"`
	// Phase is the display name of the build phase new bindings join.
	Phase string `mapstructure:"phase" yaml:"phase" json:"phase"`
	// Sections overrides sentinels, keyed by section name
	// (file_reference, build_file, sources_phase, group).
	Sections map[string]SectionMarkers `mapstructure:"sections" yaml:"sections" json:"sections"`
	// Kinds maps file suffixes (without the dot) to kind rules.
	Kinds map[string]KindRule `mapstructure:"kinds" yaml:"kinds" json:"kinds"`
	// Discovery holds the include/exclude globs for the source walk.
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery" json:"discovery"`
}

func defaultConfig() Config {
	return Config{
		Phase: "Sources",
		Kinds: map[string]KindRule{
			"swift":        {Type: "sourcecode.swift", Compile: true},
			"xcdatamodeld": {Type: "wrapper.xcdatamodeld", Compile: true},
			"xcassets":     {Type: "folder.assetcatalog", Compile: false},
			"md":           {Type: "net.daringfireball.markdown", Compile: false},
		},
		Discovery: DiscoveryConfig{
			Include: []string{"**/*.swift", "**/*.xcdatamodeld"},
			Exclude: []string{"**/.build/**", "**/Pods/**", "**/DerivedData/**"},
		},
	}
}

// ConfigError reports a config file that could not be parsed, failed
// schema validation, or did not decode. Callers map it to its own
// exit code, distinct from plain I/O failures.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// configNames are probed in order; the first match wins.
var configNames = []string{".xcpatch.yaml", ".xcpatch.yml", ".xcpatch.toml"}

// Load returns the configuration for the project rooted at dir. A
// missing config file is not an error; a malformed or
// schema-violating one is.
func Load(dir string) (*Config, error) {
	cfg := defaultConfig()

	path := ""
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- probed from a fixed name list
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := ValidateBytes(data, filepath.Ext(path)); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("XCPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return &cfg, nil
}

// ManifestConfig converts the project configuration to the patcher's
// dialect description.
func (c *Config) ManifestConfig() manifest.Config {
	mc := manifest.DefaultConfig()
	mc.RootGroupID = c.RootGroup
	if c.Phase != "" {
		mc.PhaseName = c.Phase
	}
	for name, markers := range c.Sections {
		key := manifest.SectionName(name)
		m, ok := mc.Sections[key]
		if !ok {
			continue
		}
		if markers.Begin != "" {
			m.Begin = markers.Begin
		}
		if markers.End != "" {
			m.End = markers.End
		}
		mc.Sections[key] = m
	}
	return mc
}

// KindFor resolves the kind rule for a path by suffix. Unknown
// suffixes fall back to a plain text entry outside the build phase.
func (c *Config) KindFor(path string) KindRule {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if rule, ok := c.Kinds[ext]; ok {
		return rule
	}
	return KindRule{Type: "text", Compile: false}
}

// Package config loads contractgen settings.
//
// Values come from defaults, then TOML files merged in precedence order
// (system < user < project), then CONTRACTGEN_* environment variables:
//
//	/etc/contractgen/config.toml
//	~/.contractgen/config.toml
//	contractgen.toml in the working directory or the nearest parent
//
// CLI flags are bound on top of the result by the command layer.
package config

import (
	"path/filepath"
	"strings"

	"github.com/teranos/contractgen/typegen"
)

// DefaultFileName is the project config file searched for by Load.
const DefaultFileName = "contractgen.toml"

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Config represents the contractgen configuration
type Config struct {
	// IR is a local path or go-getter URL of the IR document
	IR string `mapstructure:"ir" toml:"ir,omitempty"`
	// ProgramName overrides the program name from the IR document
	ProgramName    string        `mapstructure:"program_name" toml:"program_name,omitempty"`
	Output         OutputConfig  `mapstructure:"output" toml:"output"`
	Languages      []string      `mapstructure:"languages" toml:"languages"`
	ErrorCodesName string        `mapstructure:"error_codes_name" toml:"error_codes_name"`
	Exclude        ExcludeConfig `mapstructure:"exclude" toml:"exclude"`
	// Unmangled names pass through name resolution verbatim
	Unmangled []string `mapstructure:"unmangled" toml:"unmangled,omitempty"`
	// Types maps extra source type names to primitive categories
	Types      map[string]string `mapstructure:"types" toml:"types,omitempty"`
	Dart       LanguageConfig    `mapstructure:"dart" toml:"dart"`
	TypeScript LanguageConfig    `mapstructure:"typescript" toml:"typescript"`
	Watch      WatchConfig       `mapstructure:"watch" toml:"watch"`

	// Dir is the directory of the project config file, empty when none was found
	Dir string `mapstructure:"-" toml:"-"`
}

// OutputConfig configures where generated files go
type OutputConfig struct {
	Dir string `mapstructure:"dir" toml:"dir"`
}

// ExcludeConfig drops declarations from every language
type ExcludeConfig struct {
	Namespaces []string `mapstructure:"namespaces" toml:"namespaces,omitempty"`
	Types      []string `mapstructure:"types" toml:"types,omitempty"`
}

// LanguageConfig holds per-language output settings
type LanguageConfig struct {
	// Preamble is prepended verbatim to every file of the language
	Preamble string `mapstructure:"preamble" toml:"preamble,omitempty"`
	// FormatCommand runs on written files, e.g. "dart format"
	FormatCommand string `mapstructure:"format_command" toml:"format_command,omitempty"`
}

// WatchConfig configures `contractgen watch`
type WatchConfig struct {
	DebounceMS   int     `mapstructure:"debounce_ms" toml:"debounce_ms"`
	MaxPerSecond float64 `mapstructure:"max_per_second" toml:"max_per_second"`
}

// Language returns the settings of a target language.
func (c *Config) Language(lang string) LanguageConfig {
	switch strings.ToLower(lang) {
	case "dart":
		return c.Dart
	case "typescript":
		return c.TypeScript
	}
	return LanguageConfig{}
}

// Options converts the configuration into orchestrator options.
func (c *Config) Options() typegen.Options {
	opts := typegen.Options{
		Languages:      c.Languages,
		ErrorCodesName: c.ErrorCodesName,
		Exclude: typegen.ExcludeRules{
			Namespaces: c.Exclude.Namespaces,
			Types:      c.Exclude.Types,
		},
		TypeOverrides: c.Types,
		Unmangled:     c.Unmangled,
	}
	for _, lang := range []string{"dart", "typescript"} {
		if p := c.Language(lang).Preamble; p != "" {
			if opts.Preambles == nil {
				opts.Preambles = make(map[string]string)
			}
			opts.Preambles[lang] = p
		}
	}
	return opts
}

// ResolvePath makes a relative path from a config file relative to that
// file's directory. URLs and absolute paths are returned unchanged.
func (c *Config) ResolvePath(p string) string {
	if p == "" || c.Dir == "" || filepath.IsAbs(p) || strings.Contains(p, "::") || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.Dir, p)
}

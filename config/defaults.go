package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/contractgen/typegen"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ir", "")
	v.SetDefault("program_name", "")
	v.SetDefault("output.dir", "generated")
	v.SetDefault("languages", []string{"dart", "typescript"})
	v.SetDefault("error_codes_name", typegen.DefaultErrorCodesName)

	v.SetDefault("exclude.namespaces", []string{})
	v.SetDefault("exclude.types", []string{})
	v.SetDefault("unmangled", []string{})

	v.SetDefault("dart.preamble", "")
	v.SetDefault("dart.format_command", "")
	v.SetDefault("typescript.preamble", "")
	v.SetDefault("typescript.format_command", "")

	// Editors often write a file in several steps
	v.SetDefault("watch.debounce_ms", 300)
	v.SetDefault("watch.max_per_second", 2.0)
}

// Defaults returns the configuration with nothing but defaults applied.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

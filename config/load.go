package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration from defaults, config files and environment.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, project, err := initViper()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if project != "" {
		cfg.Dir = filepath.Dir(project)
	}

	globalConfig = cfg
	return globalConfig, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults and environment. Files under other paths are not read.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	if err := mergeFile(v, configPath); err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(configPath)
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CONTRACTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// initViper merges config files in precedence order: system < user < project.
// Environment variables take precedence over all files.
func initViper() (*viper.Viper, string, error) {
	project := FindProjectConfig()
	if viperInstance != nil {
		return viperInstance, project, nil
	}

	v := newViper()
	paths := []string{"/etc/contractgen/config.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".contractgen", "config.toml"))
	}
	if project != "" {
		paths = append(paths, project)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := mergeFile(v, path); err != nil {
			return nil, "", err
		}
	}

	viperInstance = v
	return v, project, nil
}

func mergeFile(v *viper.Viper, path string) error {
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("toml")
	if err := file.ReadInConfig(); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to read config file %s", path), errors.ErrInvalidConfig)
	}
	if err := v.MergeConfigMap(file.AllSettings()); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to merge config file %s", path), errors.ErrInvalidConfig)
	}
	logger.ComponentLogger("config").Debugw("merged config file", logger.FieldFile, path)
	return nil
}

// FindProjectConfig searches for contractgen.toml by walking up from the
// working directory. It returns "" when there is none.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findUp(dir, DefaultFileName)
}

func findUp(dir, name string) string {
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

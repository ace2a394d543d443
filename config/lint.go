package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/contractgen/errors"
)

// Lint decodes a config file strictly and reports keys contractgen does not
// know. Viper silently ignores them, so a typo such as "ouptut.dir" would
// otherwise fall back to the default.
func Lint(path string) error {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to parse %s", path), errors.ErrInvalidConfig)
	}

	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return errors.WithHint(
		errors.MarkInvalidConfig("%s: unknown keys: %s", path, strings.Join(keys, ", ")),
		"run `contractgen init --print` to see every supported key")
}

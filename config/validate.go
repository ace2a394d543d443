package config

import (
	"strings"

	"github.com/teranos/contractgen/errors"
)

// Validate checks that the configuration is usable. Checks that need the list
// of generators (language names, type overrides) are left to typegen.Generate.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.MarkInvalidConfig("output.dir cannot be empty")
	}

	// 0 = regenerate on every event
	if c.Watch.DebounceMS < 0 {
		return errors.MarkInvalidConfig("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Watch.MaxPerSecond <= 0 {
		return errors.WithHint(
			errors.MarkInvalidConfig("watch.max_per_second must be > 0, got %g", c.Watch.MaxPerSecond),
			"omit the key to use the default of 2")
	}

	for name, category := range c.Types {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(category) == "" {
			return errors.MarkInvalidConfig("types: empty entry %q = %q", name, category)
		}
	}
	return nil
}

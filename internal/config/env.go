package config

import (
	"fmt"
	"strings"
)

// EnvPrefix prefixes environment variables that override settings:
// TEXTCORE_ENGINE_MAX_UNDO sets engine.max_undo.
const EnvPrefix = "TEXTCORE_"

// LookupFunc reports the value of an environment variable. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

// EnvName returns the environment variable that overrides path.
func EnvName(prefix, path string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// ApplyEnv overrides settings from environment variables. Empty values
// count as set.
func (c *Config) ApplyEnv(prefix string, lookup LookupFunc) error {
	for _, path := range c.Paths() {
		name := EnvName(prefix, path)
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := c.Set(path, val); err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
	}
	return nil
}

// EnvMap adapts a map to a LookupFunc.
func EnvMap(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

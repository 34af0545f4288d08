package config

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/daytrack/internal/clierr"
)

// Accessor describes how to get and set a config key.
type Accessor struct {
	Get      func(*Config) any
	Set      func(*Config, string) error
	Writable bool
}

// Accessors returns the accessor of every addressable config key.
func Accessors() map[string]Accessor {
	return map[string]Accessor{
		"version": {
			Get: func(c *Config) any { return c.Version },
		},
		"storage.backend": {
			Get: func(c *Config) any { return c.Storage.Backend },
			Set: func(c *Config, v string) error {
				if !contains(Backends, v) {
					return clierr.Newf(clierr.InvalidInput,
						"invalid storage.backend %q; allowed: %s", v, strings.Join(Backends, ", "))
				}
				c.Storage.Backend = v
				return nil
			},
			Writable: true,
		},
		"storage.file": {
			Get:      func(c *Config) any { return c.Storage.File },
			Set:      func(c *Config, v string) error { c.Storage.File = v; return nil },
			Writable: true,
		},
		"timer.tick_interval": {
			Get: func(c *Config) any { return c.Timer.TickInterval },
			Set: func(c *Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid timer.tick_interval %q: %v", v, err)
				}
				c.Timer.TickInterval = v
				return nil
			},
			Writable: true,
		},
		"dashboard.filter": {
			Get: func(c *Config) any { return c.Dashboard.Filter },
			Set: func(c *Config, v string) error {
				if !contains(Filters, v) {
					return clierr.Newf(clierr.InvalidFilter,
						"invalid dashboard.filter %q; allowed: %s", v, strings.Join(Filters, ", "))
				}
				c.Dashboard.Filter = v
				return nil
			},
			Writable: true,
		},
		"dashboard.quotes": {
			Get: func(c *Config) any { return c.ShowQuotes() },
			Set: func(c *Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid dashboard.quotes %q: expected true or false", v)
				}
				c.Dashboard.Quotes = &b
				return nil
			},
			Writable: true,
		},
	}
}

// Keys returns the accessor keys in sorted order.
func Keys() []string {
	acc := Accessors()
	keys := make([]string, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key.
func (c *Config) Get(key string) (any, error) {
	acc, ok := Accessors()[key]
	if !ok {
		return nil, unknownKey(key)
	}
	return acc.Get(c), nil
}

// Set changes key to value and validates the result. The config is left
// unchanged on error.
func (c *Config) Set(key, value string) error {
	acc, ok := Accessors()[key]
	if !ok {
		return unknownKey(key)
	}
	if !acc.Writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}
	next := *c
	if err := acc.Set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	*c = next
	return nil
}

func unknownKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"valid_keys": Keys()})
}

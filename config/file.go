package config

// file.go - optional TOML configuration file.
//
// The file carries the same keys as the environment variables, in
// snake_case (see the toml struct tags in config.go).  File values sit
// below env vars and CLI flags in precedence.

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadFile overlays the TOML file at path onto cfg.  Unknown keys are
// rejected so typos surface instead of silently doing nothing.
func LoadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Load reads path into a fresh default-initialized Config.  Used by the
// watcher to build the candidate config for a reload.  The result is
// normalized but not validated: a config file may be partial, with the
// missing pieces supplied by flags or environment.
func Load(path string) (*Config, error) {
	cfg := New()
	if err := LoadFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import "github.com/caarlos0/env/v10"

// parseEnv overlays cfg with environment variables named in the struct tags.
// Unset variables leave the current value alone.
func parseEnv(cfg *Config) error {
	return env.Parse(cfg)
}

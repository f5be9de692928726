package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name in the Config env tags.
const EnvPrefix = "ACCOUNTKEEPER_"

// parseEnv overlays variables that are set; unset ones leave the field as is.
func parseEnv(config *Config) error {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

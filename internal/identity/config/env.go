package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rswauth/authcore/internal/common"
)

// parseEnv overlays AUTHCORE_* variables. Variables from dotenvPath are
// used when the process environment does not set them; a missing file is
// not an error.
func parseEnv(config *Config, environ []string, dotenvPath string) error {
	vars := map[string]string{}

	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("dotenv %s: %w", dotenvPath, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for k, v := range env.ToMap(environ) {
		vars[k] = v
	}

	opts := env.Options{Prefix: common.EnvPrefix, Environment: vars}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rswauth/authcore/internal/flagx"
)

// parseJSON overlays values from the JSON file named by -c or -config.
// Keys absent from the file keep their current value. Without either flag
// nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

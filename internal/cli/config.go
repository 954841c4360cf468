package cli

import (
	"fmt"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/grindloop/grind/internal/model"
)

// loadConfig reads .grind/config.yaml when present and fills defaults.
// A missing file yields the default configuration.
func loadConfig(workDir string) (model.Config, error) {
	path := filepath.Join(workDir, ".grind", "config.yaml")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return model.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg model.Config
	if err := yamlv3.Unmarshal(content, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Package yaml reads and writes the client configuration file.
package yaml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/ragchat"
)

// Load reads the config at path. A missing file yields the defaults; any
// field absent from the file keeps its default value.
func Load(path string) (ragchat.Config, error) {
	cfg := ragchat.DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return ragchat.Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ragchat.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ragchat.DefaultBaseURL
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg ragchat.Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

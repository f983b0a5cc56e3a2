package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadHeli loads the game tuning.
// Search order: customPath -> ~/.heli/configs/heli.yaml -> ./configs/heli.yaml -> embedded default.
// Files only need to carry the keys they override; everything else keeps
// its default. Only a missing file moves on to the next location; a file
// that exists but cannot be read, parsed or validated is an error.
func LoadHeli(customPath string) (HeliConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return HeliConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseHeli(data)
		if err != nil {
			return HeliConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath("heli.yaml"), filepath.Join("configs", "heli.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return HeliConfig{}, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		cfg, err := parseHeli(data)
		if err != nil {
			return HeliConfig{}, fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg, err := parseHeli(defaultHeliYAML)
	if err != nil {
		return HeliConfig{}, fmt.Errorf("config: embedded default: %w", err)
	}
	return cfg, nil
}

// parseHeli overlays YAML onto the defaults and validates the result.
func parseHeli(data []byte) (HeliConfig, error) {
	cfg := DefaultHeliConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HeliConfig{}, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return HeliConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".heli", "configs", filename)
}

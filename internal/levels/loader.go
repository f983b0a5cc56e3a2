package levels

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed chapters.yaml
var defaultChaptersYAML []byte

type catalogFile struct {
	Chapters []Chapter `yaml:"chapters"`
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("levels: failed to parse catalog: %w", err)
	}
	return NewCatalog(f.Chapters)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultChaptersYAML)
}

// Load loads the chapter catalog.
// Search order: customPath -> ~/.heli/configs/chapters.yaml -> ./configs/chapters.yaml -> embedded default.
// Only a missing file moves on to the next location; a file that exists but
// cannot be read or does not validate is an error.
func Load(customPath string) (*Catalog, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("levels: failed to read %s: %w", customPath, err)
		}
		return Parse(data)
	}

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".heli", "configs", "chapters.yaml"))
	}
	paths = append(paths, filepath.Join("configs", "chapters.yaml"))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("levels: failed to read %s: %w", path, err)
		}
		cat, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("levels: %s: %w", path, err)
		}
		return cat, nil
	}

	return Default()
}

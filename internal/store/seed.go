package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadSeed adds the file at path to s under its base name and returns the
// assigned identifier.
func LoadSeed(s Store, path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed %s: %w", path, err)
	}
	id, err := s.Add(filepath.Base(path), data)
	if err != nil {
		return 0, fmt.Errorf("add seed %s: %w", path, err)
	}
	return id, nil
}

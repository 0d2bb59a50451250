// Package store persists the episode collection as a flat JSON file, the
// single source of truth between pipeline runs. Writes go through a
// temp-file rename so an aborted run never clobbers the previous file;
// the same atomic write is used for the rendered artifacts.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tal-archive/pkg/domain"
)

// Load reads the episode collection from path. A missing file is a first
// run and yields an empty collection, not an error.
func Load(path string) ([]domain.Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Episode{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var episodes []domain.Episode
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return episodes, nil
}

// Save writes the episode collection to path.
func Save(path string, episodes []domain.Episode) error {
	data, err := json.MarshalIndent(episodes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode episodes: %w", err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers only ever see a complete file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

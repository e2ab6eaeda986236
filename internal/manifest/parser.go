package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// rawEntry mirrors one manifest table before identity parsing.
type rawEntry struct {
	UUID    string            `toml:"uuid"`
	Version string            `toml:"version"`
	Hash    string            `toml:"hash,omitempty"`
	Deps    map[string]string `toml:"deps,omitempty"`
}

// Load reads the manifest from an environment directory. An environment with
// no manifest file yet is a valid empty environment, not an error.
func Load(envDir string) (*Manifest, error) {
	return LoadFile(filepath.Join(envDir, FileName))
}

// LoadFile reads and parses a manifest document at the given path.
func LoadFile(path string) (*Manifest, error) {
	var raw map[string]rawEntry
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Packages: map[string]Entry{}}, nil
		}
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	packages := make(map[string]Entry, len(raw))
	for name, entry := range raw {
		id, err := uuid.Parse(entry.UUID)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: package %q has invalid uuid %q: %w", path, name, entry.UUID, err)
		}
		if entry.Version == "" {
			return nil, fmt.Errorf("manifest %s: package %q missing version", path, name)
		}

		deps := make(map[string]uuid.UUID, len(entry.Deps))
		for depName, depID := range entry.Deps {
			parsed, err := uuid.Parse(depID)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: package %q dependency %q has invalid uuid %q: %w",
					path, name, depName, depID, err)
			}
			deps[depName] = parsed
		}

		packages[name] = Entry{
			UUID:    id,
			Version: entry.Version,
			Hash:    entry.Hash,
			Deps:    deps,
		}
	}

	return &Manifest{Packages: packages}, nil
}

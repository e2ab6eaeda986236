package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// descriptor mirrors the registry.toml document.
type descriptor struct {
	Name string `toml:"name"`
	UUID string `toml:"uuid"`
	Repo string `toml:"repo"`
}

// Discover scans each depot directory for registries and returns them in
// depot order. A subdirectory counts as a registry only when it contains both
// the descriptor file and the package listing; anything else is skipped.
// Depots that do not exist or cannot be listed are skipped silently so a
// shared config works across machines with different depots checked out.
func Discover(depots []string) ([]Registry, error) {
	var result []Registry

	for _, depot := range depots {
		entries, err := os.ReadDir(depot)
		if err != nil {
			continue // depot not present on this machine
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(depot, entry.Name())
			if _, err := os.Stat(filepath.Join(dir, ListingFile)); err != nil {
				continue
			}
			descPath := filepath.Join(dir, DescriptorFile)
			if _, err := os.Stat(descPath); err != nil {
				continue
			}

			reg, err := readDescriptor(descPath, dir)
			if err != nil {
				return nil, err
			}
			result = append(result, reg)
		}
	}

	return result, nil
}

// readDescriptor parses registry.toml and validates its identity.
func readDescriptor(path, dir string) (Registry, error) {
	var desc descriptor
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		return Registry{}, &MalformedError{Path: path, Reason: fmt.Sprintf("decoding descriptor: %v", err)}
	}
	if desc.Name == "" {
		return Registry{}, &MalformedError{Path: path, Reason: "descriptor missing name"}
	}
	id, err := uuid.Parse(desc.UUID)
	if err != nil {
		return Registry{}, &MalformedError{Path: path, Content: desc.UUID, Reason: "descriptor uuid is not a valid UUID"}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Registry{}, fmt.Errorf("resolving registry path %s: %w", dir, err)
	}

	return Registry{Name: desc.Name, UUID: id, Repo: desc.Repo, Path: abs}, nil
}

package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Per-package metadata file names inside a package directory.
const (
	PackageFile  = "package.toml"  // descriptor: name, uuid, repo
	VersionsFile = "versions.toml" // version → content hash
	DepsFile     = "deps.toml"     // version → dependency name → dependency identity
	CompatFile   = "compat.toml"   // version → dependency name → compat expression
)

// PackageDescriptor mirrors the package.toml document. The repo URL is the
// human-readable hint shown when a name is ambiguous across registries.
type PackageDescriptor struct {
	Name string `toml:"name"`
	UUID string `toml:"uuid"`
	Repo string `toml:"repo"`
}

// PackageMetadata holds the per-version tables read from one package
// directory. Tables are never mutated after loading.
type PackageMetadata struct {
	Versions map[string]string               // version → content hash
	Deps     map[string]map[string]uuid.UUID // version → dep name → dep identity
	Compat   map[string]map[string]string    // version → dep name → compat expression
}

// LoadMetadata reads the versions, deps, and compat tables from a package
// directory. The versions table is required: a package directory reachable
// from the index but missing it is a malformed registry. The deps and compat
// tables are optional (a package may declare no dependencies).
func LoadMetadata(dir string) (*PackageMetadata, error) {
	meta := &PackageMetadata{}

	versionsPath := filepath.Join(dir, VersionsFile)
	if _, err := toml.DecodeFile(versionsPath, &meta.Versions); err != nil {
		if os.IsNotExist(err) {
			return nil, &MalformedError{Path: versionsPath, Reason: "versions table missing"}
		}
		return nil, &MalformedError{Path: versionsPath, Reason: fmt.Sprintf("decoding versions table: %v", err)}
	}

	rawDeps, err := loadOptionalTable(filepath.Join(dir, DepsFile))
	if err != nil {
		return nil, err
	}
	meta.Deps = make(map[string]map[string]uuid.UUID, len(rawDeps))
	for version, deps := range rawDeps {
		byName := make(map[string]uuid.UUID, len(deps))
		for name, raw := range deps {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, &MalformedError{
					Path:    filepath.Join(dir, DepsFile),
					Content: raw,
					Reason:  fmt.Sprintf("dependency %q of version %s has invalid identity", name, version),
				}
			}
			byName[name] = id
		}
		meta.Deps[version] = byName
	}

	meta.Compat, err = loadOptionalTable(filepath.Join(dir, CompatFile))
	if err != nil {
		return nil, err
	}

	return meta, nil
}

// LoadDescriptor reads the package descriptor from a package directory.
func LoadDescriptor(dir string) (*PackageDescriptor, error) {
	path := filepath.Join(dir, PackageFile)
	var desc PackageDescriptor
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reading package descriptor: %w", err)
		}
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("decoding package descriptor: %v", err)}
	}
	return &desc, nil
}

// loadOptionalTable decodes a version-keyed string table, returning an empty
// map when the file does not exist.
func loadOptionalTable(path string) (map[string]map[string]string, error) {
	table := make(map[string]map[string]string)
	if _, err := toml.DecodeFile(path, &table); err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("decoding table: %v", err)}
	}
	return table, nil
}

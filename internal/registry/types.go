package registry

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Well-known file names inside a registry directory.
const (
	// DescriptorFile identifies a directory as a registry.
	DescriptorFile = "registry.toml"

	// ListingFile is the line-oriented package listing. One record per line:
	//
	//	<identity> = { name = "<name>", path = "<relative-path>" }
	ListingFile = "packages.toml"
)

// Registry represents one discovered registry directory.
type Registry struct {
	Name string    // registry name from the descriptor
	UUID uuid.UUID // registry identity from the descriptor
	Repo string    // upstream repository URL (informational)
	Path string    // absolute path to the registry root
}

// ListingPath returns the absolute path of the registry's package listing.
func (r Registry) ListingPath() string {
	return filepath.Join(r.Path, ListingFile)
}

// Index maps a package name to the identities known under that name, and each
// identity to the package directories carrying its metadata. When the same
// identity is listed by more than one registry, all locations are retained in
// discovery order; the first is treated as authoritative by consumers.
type Index map[string]map[uuid.UUID][]string

// Locations returns the package directories for (name, id), or nil when the
// pair is not indexed.
func (idx Index) Locations(name string, id uuid.UUID) []string {
	return idx[name][id]
}

// Merge folds other into idx, appending locations for identities already
// present. Used when transitive discovery indexes additional names.
func (idx Index) Merge(other Index) {
	for name, byID := range other {
		dst := idx[name]
		if dst == nil {
			idx[name] = byID
			continue
		}
		for id, locs := range byID {
			dst[id] = append(dst[id], locs...)
		}
	}
}

// Identities returns the identities indexed under name, or nil.
func (idx Index) Identities(name string) []uuid.UUID {
	byID := idx[name]
	if len(byID) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids
}

package resolve

import (
	"sort"

	"github.com/google/uuid"

	"github.com/quarry-pm/quarry/internal/manifest"
	"github.com/quarry-pm/quarry/internal/registry"
)

// ResolveIdentities maps each requested name to its unique package identity.
//
// A name recorded in the manifest is pinned to its installed identity: other
// registry candidates are discarded, and if no registry still carries the
// installed identity the resolution fails with InconsistentError. A name the
// manifest does not know must resolve to exactly one registry identity;
// zero is NotFoundError, more than one is an ambiguity. All ambiguities in
// the request are gathered before returning AmbiguousError so the caller
// sees the complete list.
func ResolveIdentities(req Request, idx registry.Index, m *manifest.Manifest) (map[string]uuid.UUID, error) {
	names := make([]string, 0, len(req))
	for name := range req {
		names = append(names, name)
	}
	sort.Strings(names)

	fixed := make(map[string]uuid.UUID, len(names))
	var ambiguities []Ambiguity

	for _, name := range names {
		if entry, ok := m.Lookup(name); ok {
			// The manifest is authoritative once a package is installed.
			if len(idx.Locations(name, entry.UUID)) == 0 {
				return nil, &InconsistentError{Name: name, Identity: entry.UUID}
			}
			fixed[name] = entry.UUID
			continue
		}

		ids := idx.Identities(name)
		switch len(ids) {
		case 0:
			return nil, &NotFoundError{Name: name}
		case 1:
			fixed[name] = ids[0]
		default:
			ambiguities = append(ambiguities, describeAmbiguity(name, ids, idx))
		}
	}

	if len(ambiguities) > 0 {
		return nil, &AmbiguousError{Ambiguities: ambiguities}
	}
	return fixed, nil
}

// describeAmbiguity builds the candidate list for an ambiguous name. The
// descriptor hint is read lazily, only on this failure path, from the first
// location of each candidate; a missing descriptor just leaves the hint
// empty.
func describeAmbiguity(name string, ids []uuid.UUID, idx registry.Index) Ambiguity {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		c := Candidate{Identity: id}
		if locs := idx.Locations(name, id); len(locs) > 0 {
			if desc, err := registry.LoadDescriptor(locs[0]); err == nil {
				c.Hint = desc.Repo
			}
		}
		candidates = append(candidates, c)
	}

	return Ambiguity{Name: name, Candidates: candidates}
}

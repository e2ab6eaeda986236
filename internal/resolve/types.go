package resolve

import (
	"github.com/google/uuid"

	"github.com/quarry-pm/quarry/internal/version"
)

// Request maps requested package names to their version specs. A nil spec
// admits all versions of that name.
type Request map[string]*version.Spec

// AvailableVersion is one content-addressed release of a package as declared
// in registry metadata. Entries are never mutated once built.
type AvailableVersion struct {
	Hash   string               // content hash of the release
	Deps   map[string]uuid.UUID // declared dependencies: name → required identity
	Compat map[string]string    // declared compat expressions, carried through untouched
}

// Graph maps package name → version string → AvailableVersion, restricted to
// names reachable from the request and to versions that survived filtering.
// A name present with an empty version map had every candidate pruned; that
// is the solver's unsatisfiability to report, not an error here.
type Graph map[string]map[string]AvailableVersion

// Resolution is the output of a collection run: the identity fixed for every
// name in the final working set, and the filtered dependency graph.
type Resolution struct {
	Fixed map[string]uuid.UUID
	Graph Graph
}

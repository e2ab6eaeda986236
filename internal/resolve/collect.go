package resolve

import (
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/quarry-pm/quarry/internal/manifest"
	"github.com/quarry-pm/quarry/internal/registry"
	"github.com/quarry-pm/quarry/internal/version"
)

// Collector expands a resolution request into a dependency graph. It holds
// the discovered registries and the environment manifest for one run; both
// are read-only.
type Collector struct {
	registries []registry.Registry
	manifest   *manifest.Manifest
}

// NewCollector returns a Collector over the given registries and manifest.
func NewCollector(registries []registry.Registry, m *manifest.Manifest) *Collector {
	return &Collector{registries: registries, manifest: m}
}

// Collect runs the full pipeline for req: index the requested names, fix
// their identities, then walk declared dependencies outward. Newly
// encountered dependency names are queued, indexed in batches, and processed
// exactly once, so expansion terminates. Processing order is kept
// deterministic (sorted names, ascending versions) so repeated runs over
// unchanged registries yield identical results.
func (c *Collector) Collect(req Request) (*Resolution, error) {
	initial := make([]string, 0, len(req))
	for name := range req {
		initial = append(initial, name)
	}
	sort.Strings(initial)

	idx, err := registry.BuildIndex(c.registries, initial)
	if err != nil {
		return nil, err
	}

	fixed, err := ResolveIdentities(req, idx, c.manifest)
	if err != nil {
		return nil, err
	}

	graph := make(Graph)
	visited := make(map[string]bool)
	indexed := make(map[string]bool, len(initial))
	for _, name := range initial {
		indexed[name] = true
	}

	queue := initial
	for len(queue) > 0 {
		// Index the names discovered in the previous round.
		var missing []string
		for _, name := range queue {
			if !indexed[name] {
				indexed[name] = true
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			more, err := registry.BuildIndex(c.registries, missing)
			if err != nil {
				return nil, err
			}
			idx.Merge(more)
		}

		var next []string
		for _, name := range queue {
			if visited[name] {
				continue
			}
			visited[name] = true

			discovered, err := c.collectPackage(name, req[name], idx, fixed, graph)
			if err != nil {
				return nil, err
			}
			next = append(next, discovered...)
		}
		sort.Strings(next)
		queue = next
	}

	return &Resolution{Fixed: fixed, Graph: graph}, nil
}

// collectPackage reads the per-version metadata for one name, filters its
// versions, inserts the survivors into graph, and returns dependency names
// not seen before. The first indexed location is authoritative for metadata.
func (c *Collector) collectPackage(name string, spec *version.Spec, idx registry.Index, fixed map[string]uuid.UUID, graph Graph) ([]string, error) {
	id := fixed[name]
	locs := idx.Locations(name, id)
	if len(locs) == 0 {
		if _, ok := c.manifest.Lookup(name); ok {
			return nil, &InconsistentError{Name: name, Identity: id}
		}
		return nil, &NotFoundError{Name: name}
	}

	meta, err := registry.LoadMetadata(locs[0])
	if err != nil {
		return nil, err
	}

	versions, err := sortedVersions(locs[0], meta)
	if err != nil {
		return nil, err
	}

	entry := make(map[string]AvailableVersion)
	graph[name] = entry

	var discovered []string
	for _, ver := range versions {
		if !spec.Matches(ver.parsed) {
			continue
		}
		deps := meta.Deps[ver.raw]
		if c.depConflicts(deps, fixed) {
			// Infeasible under the identities already fixed; the solver
			// never sees it. Exclusion, not an error.
			continue
		}

		entry[ver.raw] = AvailableVersion{
			Hash:   meta.Versions[ver.raw],
			Deps:   deps,
			Compat: meta.Compat[ver.raw],
		}

		depNames := make([]string, 0, len(deps))
		for depName := range deps {
			depNames = append(depNames, depName)
		}
		sort.Strings(depNames)

		for _, depName := range depNames {
			if _, ok := fixed[depName]; ok {
				continue
			}
			if installed, ok := c.manifest.Lookup(depName); ok {
				fixed[depName] = installed.UUID
			} else {
				fixed[depName] = deps[depName]
			}
			discovered = append(discovered, depName)
		}
	}

	return discovered, nil
}

// depConflicts reports whether any declared dependency identity contradicts
// an identity already fixed for that dependency's name, whether by earlier
// resolution or by the environment manifest.
func (c *Collector) depConflicts(deps map[string]uuid.UUID, fixed map[string]uuid.UUID) bool {
	for depName, depID := range deps {
		if want, ok := fixed[depName]; ok {
			if want != depID {
				return true
			}
			continue
		}
		if installed, ok := c.manifest.Lookup(depName); ok && installed.UUID != depID {
			return true
		}
	}
	return false
}

// versionKey pairs a raw version string with its parsed form.
type versionKey struct {
	raw    string
	parsed *semver.Version
}

// sortedVersions parses and orders the version table keys ascending. A key
// that is not a semantic version is malformed registry metadata.
func sortedVersions(dir string, meta *registry.PackageMetadata) ([]versionKey, error) {
	keys := make([]versionKey, 0, len(meta.Versions))
	for raw := range meta.Versions {
		parsed, err := version.Parse(raw)
		if err != nil {
			return nil, &registry.MalformedError{
				Path:    filepath.Join(dir, registry.VersionsFile),
				Content: raw,
				Reason:  "version key is not a semantic version",
			}
		}
		keys = append(keys, versionKey{raw: raw, parsed: parsed})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].parsed.Equal(keys[j].parsed) {
			return keys[i].raw < keys[j].raw
		}
		return keys[i].parsed.LessThan(keys[j].parsed)
	})
	return keys, nil
}

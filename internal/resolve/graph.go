package resolve

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Candidates projects the resolution into the minimal table the solver
// consumes: identity → version → content hash. This is a pure reshaping of
// what Collect already retained; no further filtering happens here.
func (r *Resolution) Candidates() map[uuid.UUID]map[string]string {
	out := make(map[uuid.UUID]map[string]string, len(r.Graph))
	for name, versions := range r.Graph {
		table := make(map[string]string, len(versions))
		for ver, av := range versions {
			table[ver] = av.Hash
		}
		out[r.Fixed[name]] = table
	}
	return out
}

// Digest returns a canonical xxhash digest of the graph. Names, versions,
// and dependency entries are folded in sorted order, so two runs against
// unchanged registries and manifest produce the same digest regardless of
// map iteration or worklist order.
func (g Graph) Digest() uint64 {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	d := xxhash.New()
	for _, name := range names {
		fmt.Fprintf(d, "%s\n", name)

		versions := make([]string, 0, len(g[name]))
		for ver := range g[name] {
			versions = append(versions, ver)
		}
		sort.Strings(versions)

		for _, ver := range versions {
			av := g[name][ver]
			fmt.Fprintf(d, "\t%s %s\n", ver, av.Hash)

			depNames := make([]string, 0, len(av.Deps))
			for depName := range av.Deps {
				depNames = append(depNames, depName)
			}
			sort.Strings(depNames)
			for _, depName := range depNames {
				fmt.Fprintf(d, "\t\tdep %s = %s\n", depName, av.Deps[depName])
			}

			compatNames := make([]string, 0, len(av.Compat))
			for compatName := range av.Compat {
				compatNames = append(compatNames, compatName)
			}
			sort.Strings(compatNames)
			for _, compatName := range compatNames {
				fmt.Fprintf(d, "\t\tcompat %s = %s\n", compatName, av.Compat[compatName])
			}
		}
	}
	return d.Sum64()
}

package manifest

import "github.com/google/uuid"

// FileName is the manifest file inside an environment directory.
const FileName = "manifest.toml"

// Entry records one installed package.
type Entry struct {
	UUID    uuid.UUID            // the package identity pinned by installation
	Version string               // installed version
	Hash    string               // content hash of the installed version, if recorded
	Deps    map[string]uuid.UUID // declared dependencies: name → identity
}

// Manifest is the installed package set of one environment, keyed by package
// name. It is loaded once per resolution run and never mutated.
type Manifest struct {
	Packages map[string]Entry
}

// Lookup returns the entry for name and whether it exists.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	entry, ok := m.Packages[name]
	return entry, ok
}

// Names returns the installed package names in unspecified order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Packages))
	for name := range m.Packages {
		names = append(names, name)
	}
	return names
}

package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const (
	regUUID  = "11111111-1111-1111-1111-111111111111"
	regUUID2 = "21111111-1111-1111-1111-111111111111"
)

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// writeRegistry creates a minimal registry directory under depot and returns it.
func writeRegistry(t *testing.T, depot, dirName, name, id, listing string) string {
	t.Helper()
	dir := filepath.Join(depot, dirName)
	writeFile(t, filepath.Join(dir, DescriptorFile),
		"name = \""+name+"\"\nuuid = \""+id+"\"\nrepo = \"https://example.com/"+name+".git\"\n")
	writeFile(t, filepath.Join(dir, ListingFile), listing)
	return dir
}

func TestDiscoverFindsRegistries(t *testing.T) {
	depot := t.TempDir()
	writeRegistry(t, depot, "General", "General", regUUID, "")
	writeRegistry(t, depot, "Corp", "Corp", regUUID2, "")

	// A directory without a listing is not a registry.
	writeFile(t, filepath.Join(depot, "NotARegistry", DescriptorFile),
		"name = \"nope\"\nuuid = \""+regUUID+"\"\n")
	// Neither is a plain file.
	writeFile(t, filepath.Join(depot, "stray.txt"), "ignore me")

	regs, err := Discover([]string{depot})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(regs) != 2 {
		t.Fatalf("got %d registries, want 2", len(regs))
	}
	if regs[0].Name != "Corp" && regs[0].Name != "General" {
		t.Errorf("unexpected registry name %q", regs[0].Name)
	}
	for _, reg := range regs {
		if !filepath.IsAbs(reg.Path) {
			t.Errorf("registry path %q is not absolute", reg.Path)
		}
		if reg.UUID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Errorf("registry %q has zero UUID", reg.Name)
		}
		if reg.Repo == "" {
			t.Errorf("registry %q missing repo", reg.Name)
		}
	}
}

func TestDiscoverDepotOrder(t *testing.T) {
	depotA := t.TempDir()
	depotB := t.TempDir()
	writeRegistry(t, depotA, "First", "First", regUUID, "")
	writeRegistry(t, depotB, "Second", "Second", regUUID2, "")

	regs, err := Discover([]string{depotA, depotB})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("got %d registries, want 2", len(regs))
	}
	if regs[0].Name != "First" || regs[1].Name != "Second" {
		t.Errorf("registries out of depot order: %q, %q", regs[0].Name, regs[1].Name)
	}
}

func TestDiscoverSkipsMissingDepot(t *testing.T) {
	depot := t.TempDir()
	writeRegistry(t, depot, "General", "General", regUUID, "")

	regs, err := Discover([]string{filepath.Join(depot, "does-not-exist"), depot})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("got %d registries, want 1", len(regs))
	}
}

func TestDiscoverMalformedDescriptor(t *testing.T) {
	depot := t.TempDir()
	writeRegistry(t, depot, "Broken", "Broken", "not-a-uuid", "")

	_, err := Discover([]string{depot})
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want *MalformedError", err)
	}
	if malformed.Content != "not-a-uuid" {
		t.Errorf("MalformedError content = %q, want the bad uuid", malformed.Content)
	}
}

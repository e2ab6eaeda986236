package registry

import (
	"errors"
	"path/filepath"
	"testing"
)

func writePackageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, PackageFile),
		"name = \"Foo\"\nuuid = \""+idFoo+"\"\nrepo = \"https://example.com/Foo.git\"\n")
	writeFile(t, filepath.Join(dir, VersionsFile),
		"\"1.0.0\" = \"d1f0e9a3\"\n\"1.2.0\" = \"e4b2c771\"\n")
	writeFile(t, filepath.Join(dir, DepsFile),
		"[\"1.2.0\"]\nBar = \""+idBar+"\"\n")
	writeFile(t, filepath.Join(dir, CompatFile),
		"[\"1.2.0\"]\nBar = \">=2.0.0\"\n")
	return dir
}

func TestLoadMetadata(t *testing.T) {
	dir := writePackageDir(t)

	meta, err := LoadMetadata(dir)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}

	if len(meta.Versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(meta.Versions))
	}
	if meta.Versions["1.0.0"] != "d1f0e9a3" {
		t.Errorf("hash for 1.0.0 = %q, want %q", meta.Versions["1.0.0"], "d1f0e9a3")
	}

	deps := meta.Deps["1.2.0"]
	if len(deps) != 1 {
		t.Fatalf("got %d deps for 1.2.0, want 1", len(deps))
	}
	if deps["Bar"] != mustUUID(t, idBar) {
		t.Errorf("dep identity for Bar = %s, want %s", deps["Bar"], idBar)
	}
	if len(meta.Deps["1.0.0"]) != 0 {
		t.Errorf("1.0.0 declares no deps, got %v", meta.Deps["1.0.0"])
	}

	if meta.Compat["1.2.0"]["Bar"] != ">=2.0.0" {
		t.Errorf("compat for Bar = %q, want %q", meta.Compat["1.2.0"]["Bar"], ">=2.0.0")
	}
}

func TestLoadMetadataMissingVersions(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadMetadata(dir)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want *MalformedError for missing versions table", err)
	}
}

func TestLoadMetadataBadDepIdentity(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, VersionsFile), "\"1.0.0\" = \"d1f0e9a3\"\n")
	writeFile(t, filepath.Join(dir, DepsFile), "[\"1.0.0\"]\nBar = \"not-a-uuid\"\n")

	_, err := LoadMetadata(dir)
	var malformed *MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want *MalformedError for invalid dep identity", err)
	}
	if malformed.Content != "not-a-uuid" {
		t.Errorf("MalformedError content = %q, want the bad identity", malformed.Content)
	}
}

func TestLoadMetadataNoOptionalTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, VersionsFile), "\"1.0.0\" = \"d1f0e9a3\"\n")

	meta, err := LoadMetadata(dir)
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if len(meta.Deps) != 0 || len(meta.Compat) != 0 {
		t.Errorf("expected empty deps/compat, got %v / %v", meta.Deps, meta.Compat)
	}
}

func TestLoadDescriptor(t *testing.T) {
	dir := writePackageDir(t)

	desc, err := LoadDescriptor(dir)
	if err != nil {
		t.Fatalf("LoadDescriptor: %v", err)
	}
	if desc.Name != "Foo" {
		t.Errorf("Name = %q, want %q", desc.Name, "Foo")
	}
	if desc.Repo != "https://example.com/Foo.git" {
		t.Errorf("Repo = %q, want the repo URL", desc.Repo)
	}
}

func TestLoadDescriptorMissing(t *testing.T) {
	if _, err := LoadDescriptor(t.TempDir()); err == nil {
		t.Fatal("expected error for missing descriptor")
	}
}

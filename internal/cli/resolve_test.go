package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/quarry-pm/quarry/internal/config"
	"github.com/quarry-pm/quarry/internal/registry"
)

const (
	testRegID = "11111111-1111-1111-1111-111111111111"
	testPkgID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
)

func TestParseRequest(t *testing.T) {
	req, err := parseRequest([]string{"Foo", "Bar@1.2.0", "Baz@>=1.0.0, <2.0.0"})
	if err != nil {
		t.Fatalf("parseRequest: %v", err)
	}

	if len(req) != 3 {
		t.Fatalf("got %d entries, want 3", len(req))
	}
	if req["Foo"] != nil {
		t.Error("Foo should be unconstrained")
	}
	if _, ok := req["Bar"].Exact(); !ok {
		t.Error("Bar@1.2.0 should be an exact spec")
	}
	if !req["Baz"].MatchesString("1.5.0") {
		t.Error("Baz spec should admit 1.5.0")
	}
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad spec", []string{"Foo@twelve"}},
		{"empty name", []string{"@1.0.0"}},
		{"duplicate", []string{"Foo", "Foo@1.0.0"}},
	}
	for _, tt := range tests {
		if _, err := parseRequest(tt.args); err == nil {
			t.Errorf("%s: expected error for %v", tt.name, tt.args)
		}
	}
}

// writeTestDepot creates a depot with one registry holding one package.
func writeTestDepot(t *testing.T) string {
	t.Helper()
	depot := t.TempDir()
	regDir := filepath.Join(depot, "General")
	pkgDir := filepath.Join(regDir, "F", "Foo")

	files := map[string]string{
		filepath.Join(regDir, registry.DescriptorFile): "name = \"General\"\nuuid = \"" + testRegID + "\"\nrepo = \"https://example.com/General.git\"\n",
		filepath.Join(regDir, registry.ListingFile):    testPkgID + ` = { name = "Foo", path = "F/Foo" }` + "\n",
		filepath.Join(pkgDir, registry.PackageFile):    "name = \"Foo\"\nuuid = \"" + testPkgID + "\"\nrepo = \"https://example.com/Foo.git\"\n",
		filepath.Join(pkgDir, registry.VersionsFile):   "\"1.0.0\" = \"h1\"\n\"2.0.0\" = \"h2\"\n",
	}
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return depot
}

func setupResolveTest(t *testing.T) *bytes.Buffer {
	t.Helper()
	depot := writeTestDepot(t)
	viper.Set(config.KeyDepots, []string{depot})
	viper.Set(config.KeyEnvironment, t.TempDir())
	t.Cleanup(func() {
		viper.Set(config.KeyDepots, nil)
		viper.Set(config.KeyEnvironment, "")
	})

	var buf bytes.Buffer
	resolveCmd.SetOut(&buf)
	t.Cleanup(func() {
		resolveCmd.SetOut(nil)
		resolveOutput = "table"
		resolveDigest = false
	})
	return &buf
}

func TestResolveCommandTable(t *testing.T) {
	buf := setupResolveTest(t)

	if err := runResolve(resolveCmd, []string{"Foo@<2.0.0"}); err != nil {
		t.Fatalf("runResolve: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Foo ["+testPkgID+"]") {
		t.Errorf("output missing package header:\n%s", out)
	}
	if !strings.Contains(out, "1.0.0") {
		t.Errorf("output missing retained version:\n%s", out)
	}
	if strings.Contains(out, "2.0.0") {
		t.Errorf("filtered version leaked into output:\n%s", out)
	}
}

func TestResolveCommandYAML(t *testing.T) {
	buf := setupResolveTest(t)
	resolveOutput = "yaml"

	if err := runResolve(resolveCmd, []string{"Foo"}); err != nil {
		t.Fatalf("runResolve: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "uuid: "+testPkgID) {
		t.Errorf("yaml output missing uuid:\n%s", out)
	}
	if !strings.Contains(out, "hash: h2") {
		t.Errorf("yaml output missing version hash:\n%s", out)
	}
}

func TestResolveCommandDigestIsStable(t *testing.T) {
	buf := setupResolveTest(t)
	resolveDigest = true

	if err := runResolve(resolveCmd, []string{"Foo"}); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	first := buf.String()
	buf.Reset()
	if err := runResolve(resolveCmd, []string{"Foo"}); err != nil {
		t.Fatalf("runResolve: %v", err)
	}

	if first != buf.String() {
		t.Errorf("digest differs between runs: %q vs %q", first, buf.String())
	}
	if len(strings.TrimSpace(first)) != 16 {
		t.Errorf("digest %q is not 16 hex characters", strings.TrimSpace(first))
	}
}

func TestResolveCommandUnknownName(t *testing.T) {
	setupResolveTest(t)

	if err := runResolve(resolveCmd, []string{"Nope"}); err == nil {
		t.Fatal("expected error for unknown package")
	}
}

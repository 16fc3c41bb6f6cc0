package testutil

import (
	"encoding/json"
	"os"
	"testing"
)

// FixtureDecl mirrors the JSON schema used by testdata expectation files,
// keyed by declaration name. The asnr bounds command emits the same shape.
type FixtureDecl struct {
	Kind           string   `json:"Kind"`
	Min            *int64   `json:"Min,omitempty"`
	Max            *int64   `json:"Max,omitempty"`
	Extensible     bool     `json:"Extensible,omitempty"`
	BitLength      *int     `json:"BitLength,omitempty"`
	Members        []string `json:"Members,omitempty"`
	ExtensionIndex *int     `json:"ExtensionIndex,omitempty"`
}

// LoadFixture loads a fixture JSON file and returns nodes keyed by
// declaration name.
func LoadFixture(t testing.TB, path string) map[string]*FixtureDecl {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", path, err)
	}
	var decls map[string]*FixtureDecl
	if err := json.Unmarshal(data, &decls); err != nil {
		t.Fatalf("failed to parse fixture %s: %v", path, err)
	}
	return decls
}

// FixtureDeclsOfKind returns only fixture nodes with the given kind.
func FixtureDeclsOfKind(decls map[string]*FixtureDecl, kind string) map[string]*FixtureDecl {
	filtered := make(map[string]*FixtureDecl)
	for name, decl := range decls {
		if decl.Kind == kind {
			filtered[name] = decl
		}
	}
	return filtered
}

// FixtureBoundedDecls returns only fixture nodes that carry numeric bounds.
func FixtureBoundedDecls(decls map[string]*FixtureDecl) map[string]*FixtureDecl {
	filtered := make(map[string]*FixtureDecl)
	for name, decl := range decls {
		if decl.Min != nil || decl.Max != nil {
			filtered[name] = decl
		}
	}
	return filtered
}

// Package testsupport holds helpers for fixture driven tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// UpdateGoldenEnv, when set to "1", makes AssertGolden rewrite golden files
// instead of comparing against them.
const UpdateGoldenEnv = "READTIME_UPDATE_GOLDEN"

// LoadFixture reads a fixture file or fails the test.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// AssertGolden compares the JSON encoding of got with the golden file at path.
func AssertGolden(t testing.TB, path string, got any) {
	t.Helper()
	encoded, err := json.MarshalIndent(got, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	encoded = append(encoded, '\n')

	if os.Getenv(UpdateGoldenEnv) == "1" {
		if err := os.WriteFile(path, encoded, 0o644); err != nil {
			t.Fatalf("update golden %s: %v", path, err)
		}
		return
	}

	want := LoadFixture(t, path)
	if strings.TrimSpace(string(want)) != strings.TrimSpace(string(encoded)) {
		t.Fatalf("golden mismatch for %s\nwant:\n%s\ngot:\n%s", path, want, encoded)
	}
}

// Fixtures returns the files in dir matching pattern, sorted by name.
func Fixtures(t testing.TB, dir, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob %s: %v", pattern, err)
	}
	sort.Strings(matches)
	return matches
}

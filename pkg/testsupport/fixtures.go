// Package testsupport holds helpers shared by the package tests: fixture
// loading, an in-memory finder and a SQLite backed user store.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads a fixture file. The path is relative to the test
// package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON unmarshals a JSON fixture into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadRecords loads a JSON array fixture as records of type T.
func LoadRecords[T any](t *testing.T, path string) []T {
	t.Helper()

	var records []T
	LoadFixtureJSON(t, path, &records)
	if len(records) == 0 {
		t.Fatalf("fixture %s holds no records", path)
	}
	return records
}

// TempFile writes content to a file inside a per test directory and returns
// its path. The directory is removed when the test ends.
func TempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file %s: %v", path, err)
	}

	return path
}

// FixturePath joins filename to the package testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

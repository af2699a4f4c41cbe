// Package helpers provides shared fixtures and file assertions for tests.
package helpers

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing"
)

// ContentJSON is a canonical content document: two-space indentation, no
// trailing newline, the section shape the part1 overwrite set expects, and a
// few values the set never touches (non-ASCII text, numbers, null, empty
// containers).
//
//go:embed testdata/content.json
var ContentJSON []byte

// WriteContentFixture writes ContentJSON to dir/data/content.json and returns
// the file path.
func WriteContentFixture(t *testing.T, dir string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "data", "content.json"), ContentJSON)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Package testsupport holds fixture and golden-file helpers shared by tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/document"
)

// LoadDocument reads and parses an HTML fixture. Failures abort the test.
func LoadDocument(t *testing.T, path string) *document.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (*document.Document, error) {
	if path == "" {
		return nil, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := document.Parse(document.SourceFromFile(path), data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse document: %w", err)
	}
	return doc, nil
}

// ParseMutated loads an HTML fixture, applies old->new replacements in pairs
// and parses the result. Each old string must occur in the fixture.
func ParseMutated(t *testing.T, path string, replacements ...string) *document.Document {
	t.Helper()

	if len(replacements)%2 != 0 {
		t.Fatalf("replacements must come in old/new pairs")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	markup := string(data)
	for i := 0; i < len(replacements); i += 2 {
		if !strings.Contains(markup, replacements[i]) {
			t.Fatalf("fixture %s does not contain %q", path, replacements[i])
		}
		markup = strings.Replace(markup, replacements[i], replacements[i+1], 1)
	}
	doc, err := document.ParseString(filepath.Base(path), markup)
	if err != nil {
		t.Fatalf("parse mutated fixture: %v", err)
	}
	return doc
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// FixedClock returns a clock that always reports the same instant.
func FixedClock() func() time.Time {
	instant := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		return instant
	}
}

// FixedRunID returns a generator producing a constant run identifier.
func FixedRunID() func() string {
	return func() string {
		return "00000000-0000-0000-0000-000000000000"
	}
}

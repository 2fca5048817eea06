// ABOUTME: Tests for the split command
// ABOUTME: End-to-end document loading and per-unit file emission
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/models"
)

func writeTestDocument(t *testing.T, dir string) string {
	t.Helper()

	doc := document.New("Test Book", []*models.StructuralUnit{
		{Title: "Chapter 1", Summary: "Hello.", Level: 1, Content: "Hello."},
		{Title: "Chapter 2", Summary: "World.", Level: 1, Content: "World."},
	})
	path := filepath.Join(dir, "book.yaml")
	if err := doc.Save(path); err != nil {
		t.Fatalf("saving test document: %v", err)
	}
	return path
}

func TestSplitCmd_WritesUnitFiles(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestDocument(t, dir)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"split", docPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("split command failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var unitFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".txt") {
			unitFiles = append(unitFiles, e.Name())
		}
	}
	if len(unitFiles) != 2 {
		t.Fatalf("found %d unit files, want 2: %v", len(unitFiles), unitFiles)
	}
	if !strings.HasPrefix(unitFiles[0], "000001Chapter 1") {
		t.Errorf("first file = %q", unitFiles[0])
	}

	body, err := os.ReadFile(filepath.Join(dir, unitFiles[0]))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Hello.") {
		t.Errorf("first unit body = %q", body)
	}
}

func TestSplitCmd_MalformedDocumentFails(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(docPath, []byte("units: [not a doc"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"split", docPath})

	if err := root.Execute(); err == nil {
		t.Error("split succeeded on malformed document")
	}
}

func TestSplitCmd_MissingDocumentFails(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"split", filepath.Join(t.TempDir(), "absent.yaml")})

	if err := root.Execute(); err == nil {
		t.Error("split succeeded on missing document")
	}
}

func TestSplitCmd_RequiresExactlyOneArg(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"split"})

	if err := root.Execute(); err == nil {
		t.Error("split succeeded without arguments")
	}
}

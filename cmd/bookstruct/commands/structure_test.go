// ABOUTME: Tests for the structure command surface
// ABOUTME: Flag defaults and failure paths that need no API key
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestStructureCmd_Flags(t *testing.T) {
	cmd := NewStructureCmd()

	tests := []struct {
		flagName string
		defValue string
	}{
		{"model", ""},
		{"chunk-size", "0"},
		{"concurrency", "0"},
		{"best-effort", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestStructureCmd_RequiresTwoArgs(t *testing.T) {
	for _, args := range [][]string{
		{"structure"},
		{"structure", "only-input.txt"},
	} {
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetErr(new(bytes.Buffer))
		root.SetArgs(args)

		if err := root.Execute(); err == nil {
			t.Errorf("structure succeeded with args %v", args)
		}
	}
}

func TestStructureCmd_MissingInputFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	dir := t.TempDir()

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"structure",
		filepath.Join(dir, "absent.txt"),
		filepath.Join(dir, "out.yaml"),
	})

	if err := root.Execute(); err == nil {
		t.Error("structure succeeded on missing input file")
	}

	// No partial output may be written.
	if _, err := os.Stat(filepath.Join(dir, "out.yaml")); err == nil {
		t.Error("output file was created despite the failure")
	}
}

func TestStructureCmd_MissingAPIKeyFails(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(inputPath, []byte("some text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "")

	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"structure", inputPath, filepath.Join(dir, "out.yaml")})

	if err := root.Execute(); err == nil {
		t.Error("structure succeeded without an API key")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"long string elided", "abcdefghij", 8, "abcde..."},
		{"tiny budget hard cut", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

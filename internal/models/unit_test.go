// ABOUTME: Tests for StructuralUnit traversal and validation helpers
// ABOUTME: Covers flatten order, reconstruction, and level monotonicity
package models

import (
	"reflect"
	"testing"
)

func sampleTree() []*StructuralUnit {
	return []*StructuralUnit{
		{
			Title: "Chapter 1", Level: 1, Content: "intro ",
			Children: []*StructuralUnit{
				{Title: "Section 1.1", Level: 2, Content: "first "},
				{Title: "Section 1.2", Level: 2, Content: "second "},
			},
		},
		{Title: "Chapter 2", Level: 1, Content: "closing"},
	}
}

func TestFlatten_DocumentOrder(t *testing.T) {
	units := Flatten(sampleTree())

	var titles []string
	for _, u := range units {
		titles = append(titles, u.Title)
	}

	want := []string{"Chapter 1", "Section 1.1", "Section 1.2", "Chapter 2"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("Flatten order = %v, want %v", titles, want)
	}
}

func TestReconstruct(t *testing.T) {
	got := Reconstruct(sampleTree())
	want := "intro first second closing"
	if got != want {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestFullContent_IncludesDescendants(t *testing.T) {
	tree := sampleTree()
	got := tree[0].FullContent()
	want := "intro first second "
	if got != want {
		t.Errorf("FullContent() = %q, want %q", got, want)
	}
}

func TestLeaves(t *testing.T) {
	leaves := Leaves(sampleTree())
	if len(leaves) != 3 {
		t.Fatalf("Leaves() returned %d units, want 3", len(leaves))
	}
	if leaves[0].Title != "Section 1.1" || leaves[2].Title != "Chapter 2" {
		t.Errorf("unexpected leaf order: %q ... %q", leaves[0].Title, leaves[2].Title)
	}
}

func TestValidateNesting(t *testing.T) {
	tests := []struct {
		name    string
		units   []*StructuralUnit
		wantErr bool
	}{
		{
			name:  "valid tree",
			units: sampleTree(),
		},
		{
			name:  "empty forest",
			units: nil,
		},
		{
			name: "child at same level",
			units: []*StructuralUnit{
				{Title: "A", Level: 1, Children: []*StructuralUnit{
					{Title: "B", Level: 1},
				}},
			},
			wantErr: true,
		},
		{
			name: "child above parent level",
			units: []*StructuralUnit{
				{Title: "A", Level: 2, Children: []*StructuralUnit{
					{Title: "B", Level: 1},
				}},
			},
			wantErr: true,
		},
		{
			name: "violation deep in tree",
			units: []*StructuralUnit{
				{Title: "A", Level: 1, Children: []*StructuralUnit{
					{Title: "B", Level: 2, Children: []*StructuralUnit{
						{Title: "C", Level: 2},
					}},
				}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNesting(tt.units)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNesting() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFragment_Continuation(t *testing.T) {
	tests := []struct {
		name  string
		frag  Fragment
		first bool
		want  bool
	}{
		{"untitled chunk opener", Fragment{Level: 1}, true, true},
		{"titled chunk opener", Fragment{Title: "Chapter 3", Level: 1}, true, false},
		{"untitled mid-chunk", Fragment{Level: 1}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frag.Continuation(tt.first); got != tt.want {
				t.Errorf("Continuation(%v) = %v, want %v", tt.first, got, tt.want)
			}
		})
	}
}

// ABOUTME: StructuralUnit is one chapter/section node in the assembled book tree
// ABOUTME: Provides traversal, reconstruction, and nesting validation helpers
package models

import (
	"fmt"
	"strings"
)

// Unit levels produced by the analyzer. Deeper structure is allowed;
// these are just the conventional values.
const (
	LevelChapter = 1
	LevelSection = 2
)

// StructuralUnit is one node of the structured book tree. Children are
// kept in document order; a leaf unit holds the verbatim text of its
// span in Content.
type StructuralUnit struct {
	Title    string            `yaml:"title" json:"title"`
	Summary  string            `yaml:"summary,omitempty" json:"summary,omitempty"`
	Keywords []string          `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Level    int               `yaml:"level" json:"level"`
	Content  string            `yaml:"content,omitempty" json:"content,omitempty"`
	Children []*StructuralUnit `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsLeaf reports whether the unit has no children.
func (u *StructuralUnit) IsLeaf() bool {
	return len(u.Children) == 0
}

// FullContent returns the unit's own content followed by the content of
// all descendants in document order.
func (u *StructuralUnit) FullContent() string {
	var b strings.Builder
	var walk func(n *StructuralUnit)
	walk = func(n *StructuralUnit) {
		b.WriteString(n.Content)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(u)
	return b.String()
}

// Flatten returns all units of the forest in document order
// (depth-first, pre-order).
func Flatten(units []*StructuralUnit) []*StructuralUnit {
	var out []*StructuralUnit
	var walk func(ns []*StructuralUnit)
	walk = func(ns []*StructuralUnit) {
		for _, n := range ns {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(units)
	return out
}

// Leaves returns only the units without children, in document order.
func Leaves(units []*StructuralUnit) []*StructuralUnit {
	var out []*StructuralUnit
	for _, u := range Flatten(units) {
		if u.IsLeaf() {
			out = append(out, u)
		}
	}
	return out
}

// Reconstruct concatenates the content of every unit in document order.
// For a correctly assembled tree this equals the normalized input text.
func Reconstruct(units []*StructuralUnit) string {
	var b strings.Builder
	for _, u := range Flatten(units) {
		b.WriteString(u.Content)
	}
	return b.String()
}

// ValidateNesting checks that level strictly increases along every
// root-to-leaf path. It returns the first violation found.
func ValidateNesting(units []*StructuralUnit) error {
	var walk func(n *StructuralUnit) error
	walk = func(n *StructuralUnit) error {
		for _, c := range n.Children {
			if c.Level <= n.Level {
				return fmt.Errorf("unit %q (level %d) has child %q at level %d", n.Title, n.Level, c.Title, c.Level)
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, u := range units {
		if err := walk(u); err != nil {
			return err
		}
	}
	return nil
}

// ABOUTME: Assembles per-chunk fragments into one ordered document tree
// ABOUTME: Stack of open ancestors by level, with seam merging across chunk boundaries
package structurer

import (
	"fmt"

	"github.com/harper/bookstruct/internal/models"
)

// Assembler folds fragments, in chunk order, into a forest of
// structural units. It must observe fragments strictly in source order;
// the seam-merge rule depends on it.
type Assembler struct {
	roots []*models.StructuralUnit

	// stack of open ancestors; the top is always the most recently
	// attached unit.
	stack []*models.StructuralUnit

	lastChunk int // chunk index of the previously added fragment
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{lastChunk: -1}
}

// Add attaches one fragment to the tree. A fragment that opens a new
// chunk with no title and the same level as the currently open unit is
// treated as the continuation of a unit cut by the chunk boundary: its
// content is appended instead of creating a sibling. Fallback fragments
// always become standalone units.
func (a *Assembler) Add(frag models.Fragment) {
	opensChunk := frag.ChunkIndex != a.lastChunk
	a.lastChunk = frag.ChunkIndex

	if a.mergeAtSeam(frag, opensChunk) {
		return
	}

	unit := frag.Unit()

	// Close ancestors at or below this level before attaching.
	for len(a.stack) > 0 && a.top().Level >= unit.Level {
		a.stack = a.stack[:len(a.stack)-1]
	}

	if len(a.stack) == 0 {
		a.roots = append(a.roots, unit)
	} else {
		parent := a.top()
		parent.Children = append(parent.Children, unit)
	}

	a.stack = append(a.stack, unit)
}

// mergeAtSeam applies the chunk-seam continuation rule. Reports whether
// the fragment was absorbed into the open unit.
func (a *Assembler) mergeAtSeam(frag models.Fragment, opensChunk bool) bool {
	if frag.Fallback || !frag.Continuation(opensChunk) {
		return false
	}
	if len(a.stack) == 0 {
		return false
	}
	open := a.top()
	if open.Level != frag.Level {
		return false
	}

	open.Content += frag.Content
	if open.Summary == "" {
		open.Summary = frag.Summary
	}
	return true
}

// Units returns the assembled forest in document order.
func (a *Assembler) Units() []*models.StructuralUnit {
	return a.roots
}

// Verify checks the two assembly invariants: concatenating all content
// in document order reproduces the normalized input, and levels are
// strictly increasing along every path. A reconstruction mismatch means
// silent content loss and is reported as ErrStructuralIntegrity.
func (a *Assembler) Verify(normalized string) error {
	if got := models.Reconstruct(a.roots); got != normalized {
		return fmt.Errorf("%w: reconstructed %d runes from tree, input has %d",
			ErrStructuralIntegrity, len([]rune(got)), len([]rune(normalized)))
	}
	if err := models.ValidateNesting(a.roots); err != nil {
		return fmt.Errorf("%w: %v", ErrStructuralIntegrity, err)
	}
	return nil
}

func (a *Assembler) top() *models.StructuralUnit {
	return a.stack[len(a.stack)-1]
}

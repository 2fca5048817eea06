// ABOUTME: Fragment and Chunk are the ephemeral intermediates of the structuring pipeline
// ABOUTME: Chunks feed the analyzer; fragments feed the tree assembler
package models

// Chunk is a contiguous slice of the normalized source text, sized to
// fit one inference call. Chunks are never persisted.
type Chunk struct {
	Index  int    // position in source order, starting at 0
	Offset int    // rune offset of Text within the normalized source
	Text   string
}

// Fragment is one candidate structural unit detected inside a single
// chunk. The concatenated Content of a chunk's fragments equals the
// chunk's text exactly.
type Fragment struct {
	Title      string
	Summary    string
	Keywords   []string
	Level      int
	Content    string
	ChunkIndex int

	// Fallback marks a synthetic fragment covering a whole chunk after
	// a failed or unparseable analysis. Fallback fragments never take
	// part in seam merging.
	Fallback bool
}

// Continuation reports whether the fragment looks like the tail of a
// unit that was cut by the chunk boundary rather than the start of a
// new one: no title, and it opens its chunk.
func (f Fragment) Continuation(first bool) bool {
	return first && f.Title == ""
}

// Unit converts the fragment into a leaf StructuralUnit.
func (f Fragment) Unit() *StructuralUnit {
	return &StructuralUnit{
		Title:    f.Title,
		Summary:  f.Summary,
		Keywords: f.Keywords,
		Level:    f.Level,
		Content:  f.Content,
	}
}

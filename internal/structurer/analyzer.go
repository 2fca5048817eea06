// ABOUTME: Analyzer contract between the pipeline and the inference collaborator
// ABOUTME: Keeps transport details out of the assembler; mocks plug in for tests
package structurer

import (
	"context"
	"errors"

	"github.com/harper/bookstruct/internal/models"
)

// Sentinel errors for the structuring pipeline. Analyzer
// implementations wrap these so the pipeline can classify failures
// without knowing the transport.
var (
	// ErrInference marks a failed collaborator call (transport, quota,
	// timeout). Fatal for the run unless best-effort mode is on.
	ErrInference = errors.New("inference call failed")

	// ErrMalformedResponse marks collaborator output that did not parse
	// into the fragment schema. Always recovered locally via fallback.
	ErrMalformedResponse = errors.New("malformed analyzer response")

	// ErrStructuralIntegrity marks a post-assembly reconstruction
	// mismatch. Always fatal: it means text was lost or duplicated.
	ErrStructuralIntegrity = errors.New("structural integrity violation")
)

// AnalysisContext carries cross-chunk hints into a single analysis
// call: what the document looks like so far and how the previous chunk
// ended, so the model can recognize units cut at the seam.
type AnalysisContext struct {
	RecentTitles []string // titles of the most recently detected units
	SeamTail     string   // trailing text of the previous chunk, context only
	TotalChunks  int
}

// Analyzer identifies structural boundaries within one chunk. The
// returned fragments must be in source order and their concatenated
// Content must equal the chunk text exactly.
type Analyzer interface {
	Analyze(ctx context.Context, chunk models.Chunk, actx AnalysisContext) ([]models.Fragment, error)
}

// fallbackFragment covers a whole chunk with a single untitled unit.
// Used when the analyzer response is malformed or, in best-effort mode,
// when the call itself fails. Text is degraded, never dropped.
func fallbackFragment(chunk models.Chunk) models.Fragment {
	return models.Fragment{
		Level:      models.LevelChapter,
		Content:    chunk.Text,
		ChunkIndex: chunk.Index,
		Fallback:   true,
	}
}

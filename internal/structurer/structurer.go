// ABOUTME: Structuring pipeline: normalize, chunk, analyze, assemble, package
// ABOUTME: Dispatches inference with bounded concurrency but merges strictly in chunk order
package structurer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/harper/bookstruct/internal/chunker"
	"github.com/harper/bookstruct/internal/config"
	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/models"
)

// seamContextRunes is how much of the previous chunk's tail the
// analyzer sees as read-only context.
const seamContextRunes = 400

// recentTitleWindow limits how many prior unit titles ride along in the
// analysis context.
const recentTitleWindow = 3

// Structurer runs the full text-to-document pipeline.
type Structurer struct {
	analyzer Analyzer
	cfg      *config.Config
}

// New creates a Structurer with the given analyzer and configuration.
func New(analyzer Analyzer, cfg *config.Config) *Structurer {
	return &Structurer{analyzer: analyzer, cfg: cfg}
}

// Run structures raw book text into a validated document. An empty
// input yields a document with zero units. The returned document is
// only built after the reconstruction invariant has been verified;
// callers can serialize it without further checks.
func (s *Structurer) Run(ctx context.Context, text string) (*document.Document, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return document.New("Untitled", nil), nil
	}

	chunks := chunker.Split(normalized, chunker.Config{ChunkSize: s.cfg.ChunkSize})

	fragLists, err := s.analyzeAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	asm := NewAssembler()
	for _, frags := range fragLists {
		for _, f := range frags {
			asm.Add(f)
		}
	}

	if err := asm.Verify(normalized); err != nil {
		return nil, err
	}

	units := asm.Units()
	return document.New(deriveTitle(units), units), nil
}

// analyzeAll returns one fragment list per chunk, indexed by chunk.
// Sequential runs feed recently detected titles forward; concurrent
// runs dispatch up to cfg.Concurrency calls at once and still hand the
// results to the assembler in chunk index order.
func (s *Structurer) analyzeAll(ctx context.Context, chunks []models.Chunk) ([][]models.Fragment, error) {
	results := make([][]models.Fragment, len(chunks))

	if s.cfg.Concurrency <= 1 {
		var recent []string
		for _, c := range chunks {
			frags, err := s.analyzeOne(ctx, c, chunks, recent)
			if err != nil {
				return nil, err
			}
			results[c.Index] = frags
			recent = appendTitles(recent, frags)
		}
		return results, nil
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.cfg.Concurrency)
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup

	for _, c := range chunks {
		wg.Add(1)
		go func(c models.Chunk) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			frags, err := s.analyzeOne(cctx, c, chunks, nil)
			if err != nil {
				errs[c.Index] = err
				cancel()
				return
			}
			results[c.Index] = frags
		}(c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// analyzeOne runs one inference call and applies the degradation
// policy: malformed responses always fall back to a single untitled
// unit covering the chunk; failed calls do so only in best-effort mode.
func (s *Structurer) analyzeOne(ctx context.Context, chunk models.Chunk, chunks []models.Chunk, recent []string) ([]models.Fragment, error) {
	actx := AnalysisContext{
		RecentTitles: recent,
		TotalChunks:  len(chunks),
	}
	if chunk.Index > 0 {
		actx.SeamTail = chunker.Tail(chunks[chunk.Index-1].Text, seamContextRunes)
	}

	frags, err := s.analyzer.Analyze(ctx, chunk, actx)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedResponse):
			log.Printf("chunk %d: %v, falling back to single unit", chunk.Index, err)
			return []models.Fragment{fallbackFragment(chunk)}, nil
		case s.cfg.BestEffort && errors.Is(err, ErrInference):
			log.Printf("chunk %d: %v, best-effort fallback", chunk.Index, err)
			return []models.Fragment{fallbackFragment(chunk)}, nil
		default:
			return nil, fmt.Errorf("analyzing chunk %d: %w", chunk.Index, err)
		}
	}

	// Self-consistency: the fragments must tile the chunk exactly.
	// Anything else counts as a malformed response.
	if !coversChunk(chunk, frags) {
		log.Printf("chunk %d: fragments do not tile the chunk, falling back to single unit", chunk.Index)
		return []models.Fragment{fallbackFragment(chunk)}, nil
	}

	for i := range frags {
		frags[i].ChunkIndex = chunk.Index
	}
	return frags, nil
}

func coversChunk(chunk models.Chunk, frags []models.Fragment) bool {
	if len(frags) == 0 {
		return false
	}
	total := 0
	for _, f := range frags {
		total += len(f.Content)
	}
	if total != len(chunk.Text) {
		return false
	}
	pos := 0
	for _, f := range frags {
		if chunk.Text[pos:pos+len(f.Content)] != f.Content {
			return false
		}
		pos += len(f.Content)
	}
	return true
}

func appendTitles(recent []string, frags []models.Fragment) []string {
	for _, f := range frags {
		if f.Title != "" {
			recent = append(recent, f.Title)
		}
	}
	if len(recent) > recentTitleWindow {
		recent = recent[len(recent)-recentTitleWindow:]
	}
	return recent
}

// deriveTitle picks the book title from the first titled root unit, the
// way the first chunk's analysis named the book in the original flow.
func deriveTitle(units []*models.StructuralUnit) string {
	for _, u := range units {
		if u.Title != "" {
			return u.Title
		}
	}
	return "Untitled"
}

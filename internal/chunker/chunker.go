// ABOUTME: Splits normalized book text into analyzable chunks for the LLM
// ABOUTME: Chunks are contiguous and non-overlapping so reconstruction stays exact
package chunker

import (
	"strings"
	"unicode"

	"github.com/harper/bookstruct/internal/models"
)

// Config controls chunking behavior. Sizes are in runes, not bytes, so
// multibyte scripts get the same budget as ASCII.
type Config struct {
	ChunkSize int // target chunk size in runes
}

// DefaultConfig returns sensible defaults for chat-model context windows.
func DefaultConfig() Config {
	return Config{ChunkSize: 6000}
}

// Split partitions text into chunks in source order. Chunks are
// contiguous and gap-free: concatenating their Text yields text exactly.
// Cuts prefer a paragraph break nearest the size limit, then a sentence
// boundary, then a line break, and never land below half the budget.
// Text at or under the budget produces exactly one chunk.
func Split(text string, cfg Config) []models.Chunk {
	if text == "" {
		return nil
	}
	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []models.Chunk
	start := 0
	for start < n {
		end := start + size
		if end >= n {
			end = n
		} else {
			end = cutPoint(runes, start, end, size)
		}

		chunks = append(chunks, models.Chunk{
			Index:  len(chunks),
			Offset: start,
			Text:   string(runes[start:end]),
		})
		start = end
	}

	return chunks
}

// cutPoint finds the best boundary in (start+size/2, limit], falling
// back to a hard cut at limit when the window has no boundary at all.
func cutPoint(runes []rune, start, limit, size int) int {
	floor := start + size/2

	if p := lastParagraphBreak(runes, floor, limit); p > floor {
		return p
	}
	if p := lastSentenceEnd(runes, floor, limit); p > floor {
		return p
	}
	if p := lastLineBreak(runes, floor, limit); p > floor {
		return p
	}
	return limit
}

// lastParagraphBreak returns the position just past the last "\n\n"
// ending at or before limit, or -1.
func lastParagraphBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i > floor; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	return -1
}

// lastSentenceEnd returns the position just past the last sentence
// terminator before limit, or -1. CJK terminators count on their own;
// ASCII ones only when followed by whitespace, to avoid cutting inside
// abbreviations or decimals.
func lastSentenceEnd(runes []rune, floor, limit int) int {
	for i := limit - 1; i > floor; i-- {
		r := runes[i]
		if strings.ContainsRune("。！？", r) {
			return i + 1
		}
		if strings.ContainsRune(".!?", r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}
	return -1
}

func lastLineBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i > floor; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	return -1
}

// Tail returns up to n trailing runes of s. The pipeline hands the
// previous chunk's tail to the analyzer as read-only context so units
// cut at a seam can be recognized as continuations.
func Tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

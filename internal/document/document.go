// ABOUTME: Persisted document format for structured books, YAML on disk
// ABOUTME: Round-trip loss-free serialization with nesting validation on load
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/harper/bookstruct/internal/models"
)

// ErrMalformedDocument marks a document that fails load-time
// validation: bad YAML, missing required fields, or inconsistent level
// nesting. Fatal to any consumer.
var ErrMalformedDocument = errors.New("malformed document")

// Statistics summarizes a structured document.
type Statistics struct {
	TotalUnits        int `yaml:"total_units"`
	TotalContentChars int `yaml:"total_content_chars"`
	ChapterCount      int `yaml:"chapter_count"`
}

// Document is the persisted output of the structurer. Units are root
// structural units in document order. Once written, a document is never
// mutated; the splitter and MCP server only read.
type Document struct {
	BookTitle   string                   `yaml:"book_title"`
	DocumentID  string                   `yaml:"document_id"`
	GeneratedAt string                   `yaml:"generated_at"`
	Statistics  Statistics               `yaml:"statistics"`
	Units       []*models.StructuralUnit `yaml:"units"`
}

// New builds a document around an assembled forest, stamping identity
// and statistics.
func New(bookTitle string, units []*models.StructuralUnit) *Document {
	return &Document{
		BookTitle:   bookTitle,
		DocumentID:  uuid.New().String(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Statistics:  computeStatistics(units),
		Units:       units,
	}
}

func computeStatistics(units []*models.StructuralUnit) Statistics {
	stats := Statistics{}
	for _, u := range models.Flatten(units) {
		stats.TotalUnits++
		stats.TotalContentChars += len([]rune(u.Content))
	}
	for _, u := range units {
		if u.Level == models.LevelChapter {
			stats.ChapterCount++
		}
	}
	return stats
}

// Marshal serializes the document with stable field ordering.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// Load parses and validates document bytes. Any violation of the
// format's invariants returns an error wrapping ErrMalformedDocument.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and validates a document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Load(data)
}

func validate(doc *Document) error {
	if doc.BookTitle == "" {
		return fmt.Errorf("%w: book_title is required", ErrMalformedDocument)
	}
	for _, u := range models.Flatten(doc.Units) {
		if u.Level <= 0 {
			return fmt.Errorf("%w: unit %q has invalid level %d", ErrMalformedDocument, u.Title, u.Level)
		}
		if u.Title == "" && u.Summary == "" && u.Content == "" {
			return fmt.Errorf("%w: unit with no title, summary, or content", ErrMalformedDocument)
		}
	}
	if err := models.ValidateNesting(doc.Units); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return nil
}

// Save writes the document atomically: marshal to a temp file in the
// target directory, then rename. A failed run never leaves a partial
// document behind.
func (d *Document) Save(path string) error {
	data, err := Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bookstruct-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

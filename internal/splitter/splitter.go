// ABOUTME: Emits one text file per structural unit of a loaded document
// ABOUTME: Depth-first pre-order traversal defines the filename sequence numbers
package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/models"
)

const (
	titleMaxRunes   = 30
	summaryMaxRunes = 30
)

// Options controls file emission.
type Options struct {
	// IncludeContainers also emits units that have children; their file
	// content is the concatenation of the whole subtree.
	IncludeContainers bool

	// Ext is the output file extension, ".txt" by default.
	Ext string
}

// Split walks the document tree depth-first in document order and
// writes one file per emitted unit into dir. Sequence numbers start at
// 1 and increment per emitted file regardless of nesting depth.
// Pre-existing files with the same name are overwritten. Returns the
// written paths in emission order.
func Split(doc *document.Document, dir string, opts Options) ([]string, error) {
	ext := opts.Ext
	if ext == "" {
		ext = ".txt"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var paths []string
	used := make(map[string]bool)
	seq := 0

	for _, u := range models.Flatten(doc.Units) {
		content := u.Content
		if opts.IncludeContainers && !u.IsLeaf() {
			content = u.FullContent()
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		seq++
		name := uniqueName(used, fileName(seq, u), ext)
		path := filepath.Join(dir, name)

		if err := writeUnit(path, u.Summary, content); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// fileName builds "{seq:06d}{title}_{summary}" without the extension.
// An empty summary drops the underscore part.
func fileName(seq int, u *models.StructuralUnit) string {
	title := Sanitize(u.Title, titleMaxRunes)
	summary := Sanitize(u.Summary, summaryMaxRunes)

	name := fmt.Sprintf("%06d%s", seq, title)
	if summary != "" {
		name += "_" + summary
	}
	return name
}

// uniqueName resolves collisions left over after sanitization by
// appending a numeric suffix before the extension.
func uniqueName(used map[string]bool, base, ext string) string {
	name := base + ext
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	used[name] = true
	return name
}

// writeUnit writes the unit file: an optional leading summary line,
// then the verbatim content.
func writeUnit(path, summary, content string) error {
	var b strings.Builder
	if summary != "" {
		b.WriteString("summary: ")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
	b.WriteString(content)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Sanitize replaces characters that are illegal or unsafe in file names
// with underscores and truncates to maxRunes.
func Sanitize(s string, maxRunes int) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`\/*?:"<>|`, r):
			b.WriteRune('_')
		case r == '\n' || r == '\t' || unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	runes := []rune(b.String())
	if len(runes) > maxRunes {
		runes = runes[:maxRunes]
	}
	return string(runes)
}

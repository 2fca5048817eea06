// ABOUTME: One-time whitespace normalization applied at ingestion
// ABOUTME: All reconstruction invariants are stated against the normalized text
package structurer

import (
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize performs the single whitespace pass the pipeline applies
// before chunking: line endings become LF, trailing spaces and tabs are
// stripped per line, and runs of blank lines collapse to one blank
// line. Leading/trailing blank lines around the document are dropped.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.Trim(text, "\n")
}

// ABOUTME: Shared helpers for CLI output
// ABOUTME: Lipgloss styles and the post-run summary rendering
package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/harper/bookstruct/internal/document"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// printStructureSummary renders the end-of-run report for the
// structure command.
func printStructureSummary(cmd *cobra.Command, doc *document.Document, inputPath, outputPath string) {
	out := cmd.OutOrStdout()

	sections := doc.Statistics.TotalUnits - doc.Statistics.ChapterCount

	fmt.Fprintln(out, titleStyle.Render(truncate(doc.BookTitle, 60)))
	fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("input:"), inputPath)
	fmt.Fprintf(out, "  %s %s\n", dimStyle.Render("output:"), outputPath)
	fmt.Fprintf(out, "  %s %d chapters, %d sections, %d characters\n",
		dimStyle.Render("structure:"),
		doc.Statistics.ChapterCount,
		sections,
		doc.Statistics.TotalContentChars,
	)
	fmt.Fprintln(out, successStyle.Render("done"))
}

// ABOUTME: CLI command that splits a structured document into unit files
// ABOUTME: Writes files next to the document, one per content-bearing unit
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/splitter"
)

var (
	splitIncludeContainers bool
	splitExt               string
)

// NewSplitCmd creates the split command
func NewSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <document.yaml>",
		Short: "Split a structured document into per-unit text files",
		Long: `Split a structured YAML document into individual text files.

One file is written per unit with content, into the document's
directory, named {sequence}{title}_{summary}.txt in document order.
Existing files with the same names are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: runSplit,
		Example: `  bookstruct split book.yaml
  bookstruct split --include-containers --ext md book.yaml`,
	}

	cmd.Flags().BoolVar(&splitIncludeContainers, "include-containers", false, "Also emit files for units that have children")
	cmd.Flags().StringVar(&splitExt, "ext", ".txt", "Output file extension")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	docPath := args[0]

	doc, err := document.LoadFile(docPath)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(docPath)
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}
	dir := filepath.Dir(absPath)

	paths, err := splitter.Split(doc, dir, splitter.Options{
		IncludeContainers: splitIncludeContainers,
		Ext:               splitExt,
	})
	if err != nil {
		return err
	}

	if verbose {
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Base(p))
		}
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files written to %s\n", doc.BookTitle, len(paths), dir)
	}
	return nil
}

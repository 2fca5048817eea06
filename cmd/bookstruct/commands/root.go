// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Entry point for structure, split, mcp, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookstruct",
		Short: "Structure plain-text books into chapters and sections",
		Long: `bookstruct — book structuring toolkit

Reads a plain-text manuscript, detects chapter and section boundaries
with an LLM, and writes a structured YAML document. The document can
then be split into one text file per unit, or served to LLM agents
over MCP.

Typical flow:
  bookstruct structure manuscript.txt book.yaml
  bookstruct split book.yaml`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	cmd.AddCommand(NewStructureCmd())
	cmd.AddCommand(NewSplitCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

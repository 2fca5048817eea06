// ABOUTME: MCP command serves a structured book over stdio
// ABOUTME: Enables LLM agents to browse and search the document's units
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var mcpDocument string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve a structured book over MCP",
		Long: `Serve a structured document as an MCP (Model Context Protocol)
server on stdio, so LLM agents can browse chapters and sections,
fetch unit content, and search the book.`,
		RunE: runMCP,
		Example: `  bookstruct mcp --document book.yaml

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "book": {
  #       "command": "bookstruct",
  #       "args": ["mcp", "--document", "/path/to/book.yaml"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpDocument, "document", "", "Path to the structured YAML document (required)")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	doc, err := document.LoadFile(mcpDocument)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Bookstruct",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, doc)

	if !quiet {
		log.Printf("serving %q over MCP on stdio...", doc.BookTitle)
	}

	if err := mcpserver.ServeStdio(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ABOUTME: MCP tool definitions and registration for serving a structured book
// ABOUTME: Exposes book metadata, unit listing, unit content, and search over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/models"
)

// RegisterTools registers all book tools with the server. The document
// is read-only; handlers never mutate it.
func RegisterTools(server *mcpserver.MCPServer, doc *document.Document) *Handlers {
	handlers := &Handlers{
		doc:   doc,
		units: models.Flatten(doc.Units),
	}

	server.AddTool(mcp.Tool{
		Name:        "get_book_info",
		Description: "Get the book title, document identity, and structure statistics.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.GetBookInfo)

	server.AddTool(mcp.Tool{
		Name:        "list_units",
		Description: "List every chapter and section in document order with its sequence number, level, title, and summary.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListUnits)

	server.AddTool(mcp.Tool{
		Name:        "get_unit",
		Description: "Get the full text of one structural unit by its sequence number (see list_units).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sequence": map[string]interface{}{
					"type":        "number",
					"description": "1-based sequence number in document order",
				},
			},
			Required: []string{"sequence"},
		},
	}, handlers.GetUnit)

	server.AddTool(mcp.Tool{
		Name:        "search_content",
		Description: "Case-insensitive search over unit titles, summaries, and content.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to search for",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchContent)

	return handlers
}

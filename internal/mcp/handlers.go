// ABOUTME: MCP tool handler implementations for the structured book server
// ABOUTME: Read-only views over a loaded document, addressed by sequence number
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/bookstruct/internal/document"
	"github.com/harper/bookstruct/internal/models"
)

const snippetRunes = 160

// Handlers serves tool calls against one loaded document.
type Handlers struct {
	doc   *document.Document
	units []*models.StructuralUnit // flattened, document order
}

// unitSummary is the wire shape of one list_units entry. Sequence
// numbers match the splitter's file numbering.
type unitSummary struct {
	Sequence int    `json:"sequence"`
	Level    int    `json:"level"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Leaf     bool   `json:"leaf"`
}

// GetBookInfo handles the get_book_info tool.
func (h *Handlers) GetBookInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"book_title":   h.doc.BookTitle,
		"document_id":  h.doc.DocumentID,
		"generated_at": h.doc.GeneratedAt,
		"statistics":   h.doc.Statistics,
	}
	return jsonResult(response)
}

// ListUnits handles the list_units tool.
func (h *Handlers) ListUnits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := make([]unitSummary, len(h.units))
	for i, u := range h.units {
		entries[i] = unitSummary{
			Sequence: i + 1,
			Level:    u.Level,
			Title:    u.Title,
			Summary:  u.Summary,
			Leaf:     u.IsLeaf(),
		}
	}
	return jsonResult(map[string]interface{}{
		"total": len(entries),
		"units": entries,
	})
}

// GetUnit handles the get_unit tool.
func (h *Handlers) GetUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seq := request.GetInt("sequence", 0)
	if seq < 1 || seq > len(h.units) {
		return mcp.NewToolResultError(fmt.Sprintf("sequence must be 1-%d, got %d", len(h.units), seq)), nil
	}

	u := h.units[seq-1]
	content := u.Content
	if !u.IsLeaf() {
		content = u.FullContent()
	}

	return jsonResult(map[string]interface{}{
		"sequence": seq,
		"title":    u.Title,
		"summary":  u.Summary,
		"keywords": u.Keywords,
		"level":    u.Level,
		"leaf":     u.IsLeaf(),
		"content":  content,
	})
}

// SearchContent handles the search_content tool.
func (h *Handlers) SearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return mcp.NewToolResultError("query must not be empty"), nil
	}
	maxResults := request.GetInt("max_results", 5)
	if maxResults < 1 {
		maxResults = 5
	}

	needle := strings.ToLower(query)
	var results []map[string]interface{}

	for i, u := range h.units {
		if len(results) >= maxResults {
			break
		}
		haystack := strings.ToLower(u.Title + "\n" + u.Summary + "\n" + u.Content)
		idx := strings.Index(haystack, needle)
		if idx == -1 {
			continue
		}
		results = append(results, map[string]interface{}{
			"sequence": i + 1,
			"title":    u.Title,
			"level":    u.Level,
			"snippet":  snippet(u.Content, query),
		})
	}

	return jsonResult(map[string]interface{}{
		"query":   query,
		"total":   len(results),
		"results": results,
	})
}

// snippet returns a short window of content around the first match, or
// the content head when the match was in the title or summary.
func snippet(content, query string) string {
	runes := []rune(content)
	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))

	start := 0
	if idx > 0 {
		start = len([]rune(content[:idx]))
		if start > snippetRunes/4 {
			start -= snippetRunes / 4
		} else {
			start = 0
		}
	}

	end := start + snippetRunes
	if end > len(runes) {
		end = len(runes)
	}
	s := string(runes[start:end])
	if start > 0 {
		s = "..." + s
	}
	if end < len(runes) {
		s += "..."
	}
	return s
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"legal question in Arabic or English"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of passages to retrieve before grouping (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Results []SearchResultOutput `json:"results"`
}

// SearchResultOutput is one source document and its supporting passages.
type SearchResultOutput struct {
	Source   string          `json:"source"`
	DocType  string          `json:"doc_type"`
	Score    float64         `json:"score"`
	Passages []PassageOutput `json:"passages"`
}

// PassageOutput is a single retrieved chunk.
type PassageOutput struct {
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Strategy string  `json:"strategy"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_legal",
		Description: "Retrieve law articles, court judgments and fatwas relevant to a question, grouped by source document",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Search.Search(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(resp), nil
}

func toSearchOutput(resp *domain.SearchResponse) SearchOutput {
	out := SearchOutput{
		Query:   resp.Query,
		Count:   resp.Count,
		Results: make([]SearchResultOutput, len(resp.Results)),
	}

	for i, r := range resp.Results {
		passages := make([]PassageOutput, len(r.Chunks))
		for j, c := range r.Chunks {
			passages[j] = PassageOutput{
				Content:  c.Content,
				Score:    c.Score,
				Strategy: c.Metadata.Strategy.String(),
			}
		}
		out.Results[i] = SearchResultOutput{
			Source:   r.Source,
			DocType:  r.DocType.String(),
			Score:    r.MaxScore,
			Passages: passages,
		}
	}

	return out
}

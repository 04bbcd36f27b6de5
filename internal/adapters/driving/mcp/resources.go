package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

const uriScheme = "synqanun://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "Document collections in the corpus",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{docType}/chunks",
		Name:        "collection-chunks",
		Description: "How each file of a collection is segmented",
		MIMEType:    "application/json",
	}, s.handleChunksResource)
}

type collectionInfo struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Dir      string `json:"dir"`
}

// handleCollectionsResource lists the configured collections.
func (s *Server) handleCollectionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := make([]collectionInfo, 0, len(domain.DocTypes()))
	for _, t := range domain.DocTypes() {
		infos = append(infos, collectionInfo{
			Type:     t.String(),
			Category: t.Category(),
			Dir:      s.ports.Corpus.Dir(t),
		})
	}
	return jsonResult(req.Params.URI, infos)
}

type fileChunks struct {
	Path   string         `json:"path"`
	Error  string         `json:"error,omitempty"`
	Chunks []domain.Chunk `json:"chunks,omitempty"`
}

// handleChunksResource segments the corpus and returns one collection.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chunker == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docType, ok := extractDocType(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	results, err := s.ports.Chunker.ChunkFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("chunking corpus: %w", err)
	}

	files := make([]fileChunks, 0, len(results))
	for _, r := range results {
		if r.Type != docType {
			continue
		}
		f := fileChunks{Path: r.Path, Chunks: r.Chunks}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		files = append(files, f)
	}
	return jsonResult(req.Params.URI, files)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocType reads the type from synqanun://collections/{docType}/chunks.
func extractDocType(uri string) (domain.DocType, bool) {
	const prefix = uriScheme + "collections/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return "", false
	}

	t := domain.DocType(strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix))
	if !t.IsValid() {
		return "", false
	}
	return t, true
}

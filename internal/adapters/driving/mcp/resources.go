package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for lexguard resources.
	uriScheme = "lexguard://"

	countURI = uriScheme + "cases/count"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         countURI,
		Name:        "case-count",
		Description: "Number of legal cases in the store",
		MIMEType:    "application/json",
	}, s.handleCountResource)
}

// handleCountResource reports the store size. Without an ingest port the
// count is unknown and reported as zero.
func (s *Server) handleCountResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	count := 0
	if s.ports.Ingest != nil {
		n, err := s.ports.Ingest.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting cases: %w", err)
		}
		count = n
	}

	data, err := json.Marshal(map[string]int{"count": count})
	if err != nil {
		return nil, fmt.Errorf("marshalling count: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

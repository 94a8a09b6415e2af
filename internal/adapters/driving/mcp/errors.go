// Package mcp provides an MCP (Model Context Protocol) server adapter for lexguard.
// It lets AI assistants request copyright risk assessments and feed new case
// law into the store.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

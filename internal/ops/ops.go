// Package ops implements the operations behind the CLI and MCP surfaces:
// transcript ingestion, stage generation, validation, export, and
// artifact browsing. Each operation is one function over the database,
// config, and (where generation is involved) the pipeline controller.
package ops

import (
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// parseKindArg converts a user-supplied kind string, allowing empty when
// optional is true.
func parseKindArg(s string, optional bool) (*document.Kind, error) {
	if s == "" {
		if optional {
			return nil, nil
		}
		return nil, errors.NewInvalidRequest("kind is required")
	}
	kind, ok := document.ParseKind(s)
	if !ok {
		return nil, errors.NewInvalidRequest("unknown kind " + s + " (want transcript, key_points, prd, or trd)")
	}
	return &kind, nil
}

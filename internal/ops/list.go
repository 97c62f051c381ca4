package ops

import (
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Kind           string // optional filter by kind
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []document.ArtifactSummary `json:"items"`
	Pagination Pagination                 `json:"pagination"`
	Sort       string                     `json:"sort"`
}

// List retrieves artifact summaries with pagination, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	kind, err := parseKindArg(input.Kind, true)
	if err != nil {
		return nil, err
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	summaries, total, err := db.List(database, kind, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []document.ArtifactSummary{}
	}

	hasMore := offset+len(summaries) < total

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

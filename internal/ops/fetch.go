package ops

import (
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
	IncludeText    *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	document.Artifact // embedded (copy, not pointer)
}

// Fetch retrieves an artifact by ID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	a, err := db.GetByID(database, input.ID, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Artifact: *a, // copy, not pointer
	}

	includeText := true
	if input.IncludeText != nil {
		includeText = *input.IncludeText
	}
	if !includeText {
		output.Content = ""
	}

	return output, nil
}

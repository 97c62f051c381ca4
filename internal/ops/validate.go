package ops

import (
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// ValidateInput contains parameters for the Validate operation.
// Exactly one of ID or Content must be provided. Kind is required with
// Content and ignored with ID (the stored artifact's kind is used).
type ValidateInput struct {
	ID      string
	Kind    string
	Content string
}

// ValidateOutput contains the result of the Validate operation.
type ValidateOutput struct {
	ID     string                     `json:"id,omitempty"`
	Kind   string                     `json:"kind"`
	Result *document.ValidationResult `json:"result"`
}

// Validate checks a document against its template schema. The input is
// either a stored artifact ID or inline content with an explicit kind.
func Validate(database *sql.DB, validator *document.Validator, input ValidateInput) (*ValidateOutput, error) {
	if input.ID != "" && input.Content != "" {
		return nil, errors.NewInvalidRequest("provide id or content, not both")
	}

	var kind document.Kind
	var content string
	var id string

	switch {
	case input.ID != "":
		a, err := db.GetByID(database, input.ID, false)
		if err != nil {
			return nil, err
		}
		id = a.ID
		kind = a.Kind
		content = a.Content
	case input.Content != "":
		kindPtr, err := parseKindArg(input.Kind, false)
		if err != nil {
			return nil, err
		}
		kind = *kindPtr
		content = input.Content
	default:
		return nil, errors.NewInvalidRequest("id or content is required")
	}

	result, err := validator.Validate(kind, content)
	if err != nil {
		return nil, err
	}

	return &ValidateOutput{
		ID:     id,
		Kind:   string(kind),
		Result: result,
	}, nil
}

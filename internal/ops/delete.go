package ops

import (
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes an artifact.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.SoftDelete(database, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      input.ID,
	}, nil
}

package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// IngestInput contains parameters for the Ingest operation.
type IngestInput struct {
	Text string // required
}

// IngestOutput contains the result of the Ingest operation.
type IngestOutput struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	ContentChars int    `json:"content_chars"`
	CreatedAt    int64  `json:"created_at"`
}

// Ingest stores a raw transcript as the root artifact of a pipeline run.
func Ingest(database *sql.DB, input IngestInput) (*IngestOutput, error) {
	if document.IsBlank(input.Text) {
		return nil, errors.NewInvalidRequest("text is required and must not be blank")
	}

	id, err := document.NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	a := &document.Artifact{
		ID:             id,
		Kind:           document.KindTranscript,
		Content:        input.Text,
		ContentChars:   document.CountChars(input.Text),
		TokensEstimate: document.EstimateTokens(input.Text),
		CreatedAt:      time.Now().Unix(),
	}

	if err := db.Insert(database, a); err != nil {
		return nil, err
	}

	return &IngestOutput{
		ID:           a.ID,
		Kind:         string(a.Kind),
		ContentChars: a.ContentChars,
		CreatedAt:    a.CreatedAt,
	}, nil
}

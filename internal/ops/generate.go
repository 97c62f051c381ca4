package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
	"github.com/hpungsan/scribe/internal/gen"
	"github.com/hpungsan/scribe/internal/pipeline"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Kind        string  // required: key_points, prd, or trd
	SourceID    string  // optional, default: latest artifact of the stage's source kind
	Model       string  // optional model override
	MaxTokens   int     // optional, > 0 to override
	Temperature float64 // optional, > 0 to override
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	ID         string                     `json:"id"`
	Kind       string                     `json:"kind"`
	SourceID   string                     `json:"source_id"`
	Content    string                     `json:"content"`
	Model      string                     `json:"model,omitempty"`
	Validation *document.ValidationResult `json:"validation,omitempty"`
	CreatedAt  int64                      `json:"created_at"`
}

// Generate runs one pipeline stage against a stored source artifact and
// persists the result. The source defaults to the latest artifact of the
// stage's required source kind.
func Generate(ctx context.Context, database *sql.DB, ctrl *pipeline.Controller, input GenerateInput) (*GenerateOutput, error) {
	kindPtr, err := parseKindArg(input.Kind, false)
	if err != nil {
		return nil, err
	}
	kind := *kindPtr
	if !kind.Generated() {
		return nil, errors.NewInvalidRequest("kind " + input.Kind + " is not a generated stage (want key_points, prd, or trd)")
	}

	source, err := resolveSource(database, kind, input.SourceID)
	if err != nil {
		return nil, err
	}

	var overrides *gen.Params
	if input.Model != "" || input.MaxTokens > 0 || input.Temperature > 0 {
		overrides = &gen.Params{
			Model:       input.Model,
			MaxTokens:   input.MaxTokens,
			Temperature: input.Temperature,
		}
	}

	result, err := ctrl.RunStage(ctx, kind, source, overrides)
	if err != nil {
		return nil, err
	}

	if err := db.Insert(database, result.Artifact); err != nil {
		return nil, err
	}

	out := &GenerateOutput{
		ID:         result.Artifact.ID,
		Kind:       string(result.Artifact.Kind),
		Content:    result.Artifact.Content,
		Validation: result.Validation,
		CreatedAt:  result.Artifact.CreatedAt,
	}
	if result.Artifact.SourceID != nil {
		out.SourceID = *result.Artifact.SourceID
	}
	if result.Artifact.Model != nil {
		out.Model = *result.Artifact.Model
	}
	return out, nil
}

// resolveSource loads the stage's source artifact: by explicit ID when given,
// otherwise the latest artifact of the stage's source kind. An explicit source
// must be of the expected kind.
func resolveSource(database *sql.DB, stage document.Kind, sourceID string) (*document.Artifact, error) {
	sourceKind, ok := stage.SourceKind()
	if !ok {
		return nil, errors.NewInvalidRequest("kind " + string(stage) + " has no source stage")
	}

	if sourceID != "" {
		source, err := db.GetByID(database, sourceID, false)
		if err != nil {
			return nil, err
		}
		if source.Kind != sourceKind {
			return nil, errors.NewInvalidRequest(
				"source " + sourceID + " has kind " + string(source.Kind) + ", want " + string(sourceKind))
		}
		return source, nil
	}

	source, err := db.LatestByKind(database, sourceKind)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewPrerequisiteMissing(string(stage), string(sourceKind))
		}
		return nil, err
	}
	return source, nil
}

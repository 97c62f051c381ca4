// Package pipeline sequences the transcript → key points → PRD → TRD
// generation stages and enforces cross-stage invariants.
package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
	"github.com/hpungsan/scribe/internal/gen"
)

// StageSettings are the per-stage generation defaults.
type StageSettings struct {
	Enabled     bool
	Model       string
	MaxTokens   int
	Temperature float64
}

// Config holds the settings for every generatable stage. It is built once
// at startup and passed into the controller; stage logic never consults
// ambient state.
type Config struct {
	KeyPoints StageSettings
	PRD       StageSettings
	TRD       StageSettings
}

// DefaultConfig returns stage defaults: key points are short and cheap,
// the PRD gets more room, the TRD runs coolest and longest.
func DefaultConfig() Config {
	return Config{
		KeyPoints: StageSettings{Enabled: true, Model: "gpt-4", MaxTokens: 1000, Temperature: 0.3},
		PRD:       StageSettings{Enabled: true, Model: "gpt-4", MaxTokens: 2000, Temperature: 0.3},
		TRD:       StageSettings{Enabled: true, Model: "gpt-4", MaxTokens: 3000, Temperature: 0.2},
	}
}

// Stage returns the settings for a generatable kind.
func (c Config) Stage(kind document.Kind) (StageSettings, bool) {
	switch kind {
	case document.KindKeyPoints:
		return c.KeyPoints, true
	case document.KindPRD:
		return c.PRD, true
	case document.KindTRD:
		return c.TRD, true
	default:
		return StageSettings{}, false
	}
}

// StageResult is the outcome of one successful stage invocation. A
// structurally incomplete artifact still reaches the caller: Validation
// carries the diagnostics and the artifact keeps its content.
type StageResult struct {
	Artifact   *document.Artifact
	Validation *document.ValidationResult
}

// Controller runs pipeline stages. It is stateless across calls, so
// independent artifact chains may run concurrently; the shared validator
// and registry are read-only.
type Controller struct {
	generator gen.Generator
	validator *document.Validator
	cfg       Config
	now       func() time.Time
}

// New creates a Controller.
func New(generator gen.Generator, validator *document.Validator, cfg Config) *Controller {
	return &Controller{
		generator: generator,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GenerateKeyPoints runs the transcript → key points stage.
func (c *Controller) GenerateKeyPoints(ctx context.Context, source *document.Artifact, overrides *gen.Params) (*StageResult, error) {
	return c.RunStage(ctx, document.KindKeyPoints, source, overrides)
}

// GeneratePRD runs the key points → PRD stage.
func (c *Controller) GeneratePRD(ctx context.Context, source *document.Artifact, overrides *gen.Params) (*StageResult, error) {
	return c.RunStage(ctx, document.KindPRD, source, overrides)
}

// GenerateTRD runs the PRD → TRD stage.
func (c *Controller) GenerateTRD(ctx context.Context, source *document.Artifact, overrides *gen.Params) (*StageResult, error) {
	return c.RunStage(ctx, document.KindTRD, source, overrides)
}

// RunStage executes one stage: prerequisite gating, then one blocking
// generator call, then validation for templated kinds. It never advances
// to the next stage on its own; each stage is requested explicitly with
// the prior stage's artifact, which makes partial pipelines (stop after
// key points) a supported outcome. There is no retry here: on failure the
// caller decides whether to re-invoke.
func (c *Controller) RunStage(ctx context.Context, kind document.Kind, source *document.Artifact, overrides *gen.Params) (*StageResult, error) {
	settings, ok := c.cfg.Stage(kind)
	if !ok {
		return nil, errors.NewInvalidRequest("kind " + string(kind) + " is not a generatable stage")
	}

	sourceKind, _ := kind.SourceKind()
	if source == nil || document.IsBlank(source.Content) {
		return nil, errors.NewPrerequisiteMissing(string(kind), string(sourceKind))
	}

	if !settings.Enabled {
		return nil, errors.NewGenerationUnavailable(string(kind), "stage disabled in configuration")
	}

	params := gen.Params{
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
	if overrides != nil {
		if overrides.Model != "" {
			params.Model = overrides.Model
		}
		if overrides.MaxTokens > 0 {
			params.MaxTokens = overrides.MaxTokens
		}
		if overrides.Temperature > 0 {
			params.Temperature = overrides.Temperature
		}
	}

	content, err := c.generator.Generate(ctx, kind, source.Content, params)
	if err != nil {
		return nil, mapGeneratorError(kind, err)
	}
	// A stage never completes with a blank artifact, whatever the
	// generator implementation returned.
	if document.IsBlank(content) {
		return nil, errors.NewGenerationFailed(string(kind), "empty_output", nil)
	}

	artifact, err := c.newArtifact(kind, source, content, params.Model)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if c.validator.Registry().Has(kind) {
		validation, err := c.validator.Validate(kind, content)
		if err != nil {
			return nil, err
		}
		artifact.Validation = validation
	}

	return &StageResult{Artifact: artifact, Validation: artifact.Validation}, nil
}

// newArtifact constructs the immutable artifact for a stage result.
func (c *Controller) newArtifact(kind document.Kind, source *document.Artifact, content, model string) (*document.Artifact, error) {
	id, err := document.NewID()
	if err != nil {
		return nil, err
	}
	artifact := &document.Artifact{
		ID:             id,
		Kind:           kind,
		Content:        content,
		ContentChars:   document.CountChars(content),
		TokensEstimate: document.EstimateTokens(content),
		CreatedAt:      c.now().Unix(),
	}
	if source.ID != "" {
		sourceID := source.ID
		artifact.SourceID = &sourceID
	}
	if model != "" {
		artifact.Model = &model
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return artifact, nil
}

// mapGeneratorError translates adapter failures into the pipeline error
// taxonomy. A cancelled context is the caller abandoning the call. A
// missing API key is an availability problem, not an upstream one;
// everything else surfaces as a generation failure with its cause.
func mapGeneratorError(kind document.Kind, err error) error {
	if stderrors.Is(err, context.Canceled) {
		return errors.NewCancelled("generate " + string(kind))
	}
	var genErr *gen.Error
	if stderrors.As(err, &genErr) {
		if genErr.Kind == gen.NotConfigured {
			return errors.NewGenerationUnavailable(string(kind), genErr.Message)
		}
		return errors.NewGenerationFailed(string(kind), string(genErr.Kind), genErr)
	}
	return errors.NewGenerationFailed(string(kind), string(gen.Upstream), err)
}

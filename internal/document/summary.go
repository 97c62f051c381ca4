package document

// ArtifactSummary is an artifact's metadata without the full content.
// Used for browse operations (list, latest) to reduce data transfer.
type ArtifactSummary struct {
	// ID is a ULID that uniquely identifies this artifact
	ID string `json:"id"`

	// Kind is the artifact type
	Kind Kind `json:"kind"`

	// SourceID references the artifact this one was generated from
	SourceID *string `json:"source_id,omitempty"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// TokensEstimate is the estimated token count
	TokensEstimate int `json:"tokens_estimate"`

	// Model records the generation model, when known
	Model *string `json:"model,omitempty"`

	// Valid mirrors Validation.Valid for templated kinds; nil otherwise
	Valid *bool `json:"valid,omitempty"`

	// CoverageScore mirrors Validation.CoverageScore; nil for unvalidated kinds
	CoverageScore *float64 `json:"coverage_score,omitempty"`

	// CreatedAt is the Unix timestamp when the artifact was created
	CreatedAt int64 `json:"created_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts an Artifact to an ArtifactSummary by stripping the
// content and flattening the validation result.
func (a *Artifact) ToSummary() ArtifactSummary {
	s := ArtifactSummary{
		ID:             a.ID,
		Kind:           a.Kind,
		SourceID:       a.SourceID,
		ContentChars:   a.ContentChars,
		TokensEstimate: a.TokensEstimate,
		Model:          a.Model,
		CreatedAt:      a.CreatedAt,
		DeletedAt:      a.DeletedAt,
	}
	if a.Validation != nil {
		valid := a.Validation.Valid
		score := a.Validation.CoverageScore
		s.Valid = &valid
		s.CoverageScore = &score
	}
	return s
}

package document

import "fmt"

// Kind identifies one artifact type in the generation chain.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindKeyPoints  Kind = "key_points"
	KindPRD        Kind = "prd"
	KindTRD        Kind = "trd"
)

// Kinds lists all artifact kinds in chain order.
var Kinds = []Kind{KindTranscript, KindKeyPoints, KindPRD, KindTRD}

// displayNames maps each kind to the title used in metadata headers.
var displayNames = map[Kind]string{
	KindTranscript: "Transcript",
	KindKeyPoints:  "Key Meeting Points",
	KindPRD:        "Product Requirements Document",
	KindTRD:        "Technical Requirements Document",
}

// sourceKinds maps each generated kind to the kind it is produced from.
// Transcript has no source; it enters the chain from outside.
var sourceKinds = map[Kind]Kind{
	KindKeyPoints: KindTranscript,
	KindPRD:       KindKeyPoints,
	KindTRD:       KindPRD,
}

// ParseKind converts a string to a Kind, reporting whether it is known.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// DisplayName returns the human-readable title for a kind.
func (k Kind) DisplayName() string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}

// SourceKind returns the kind an artifact of kind k is generated from.
// ok is false for Transcript, which has no upstream stage.
func (k Kind) SourceKind() (Kind, bool) {
	src, ok := sourceKinds[k]
	return src, ok
}

// Generated reports whether artifacts of this kind are produced by a
// pipeline stage (everything except Transcript).
func (k Kind) Generated() bool {
	_, ok := sourceKinds[k]
	return ok
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Artifact is one immutable unit of content in the generation chain.
// Regeneration produces a new Artifact; existing rows are never mutated.
type Artifact struct {
	// ID is a ULID that uniquely identifies this artifact
	ID string `json:"id"`

	// Kind is the artifact type (transcript, key_points, prd, trd)
	Kind Kind `json:"kind"`

	// SourceID references the artifact this one was generated from
	// (nil for transcripts)
	SourceID *string `json:"source_id"`

	// Content is the markdown text
	Content string `json:"content,omitempty"`

	// ContentChars is the character count (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// TokensEstimate is the estimated token count for LLM context budgeting
	TokensEstimate int `json:"tokens_estimate"`

	// Model records the generation model, when known
	Model *string `json:"model,omitempty"`

	// Validation holds the structural completeness result for templated
	// kinds; nil for transcripts and key points
	Validation *ValidationResult `json:"validation,omitempty"`

	// CreatedAt is the Unix timestamp when the artifact was created
	CreatedAt int64 `json:"created_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Validate checks the artifact's internal invariants.
func (a *Artifact) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("artifact has empty id")
	}
	if _, ok := ParseKind(string(a.Kind)); !ok {
		return fmt.Errorf("artifact %s has unknown kind %q", a.ID, a.Kind)
	}
	if a.Content == "" {
		return fmt.Errorf("artifact %s has empty content", a.ID)
	}
	return nil
}

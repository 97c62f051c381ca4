// Package gen defines the boundary to the external text-generation
// capability and provides the default OpenAI-compatible implementation.
package gen

import (
	"context"
	"fmt"

	"github.com/hpungsan/scribe/internal/document"
)

// Params are the per-call generation knobs.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Generator produces markdown for one pipeline stage from source text.
// Implementations are stateless per call and potentially slow
// (network-bound); the caller treats every call as blocking and applies
// no internal retry.
type Generator interface {
	Generate(ctx context.Context, kind document.Kind, sourceText string, params Params) (string, error)
}

// ErrorKind classifies adapter failures.
type ErrorKind string

const (
	// NotConfigured: capability unavailable, typically no API key
	NotConfigured ErrorKind = "not_configured"
	// Timeout: the upstream call exceeded its deadline
	Timeout ErrorKind = "timeout"
	// Rejected: rate limit, quota, or auth rejection
	Rejected ErrorKind = "rejected"
	// Upstream: any other upstream failure
	Upstream ErrorKind = "upstream_error"
)

// Error is a typed adapter failure. The pipeline maps it onto its own
// error taxonomy; nothing above the adapter inspects provider payloads.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status for Rejected/Upstream, 0 otherwise
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("generator %s (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("generator %s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("generator %s: %s", e.Kind, e.Message)
	}
}

// Unwrap allows errors.Is / errors.As to reach the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

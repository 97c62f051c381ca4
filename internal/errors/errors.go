package errors

import "fmt"

// ErrorCode represents a Scribe error code.
type ErrorCode string

const (
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"        // 400
	ErrUnknownTemplate       ErrorCode = "UNKNOWN_TEMPLATE"       // 400
	ErrNotFound              ErrorCode = "NOT_FOUND"              // 404
	ErrPrerequisiteMissing   ErrorCode = "PREREQUISITE_MISSING"   // 422
	ErrCancelled             ErrorCode = "CANCELLED"              // 499
	ErrInternal              ErrorCode = "INTERNAL"               // 500
	ErrExportFailed          ErrorCode = "EXPORT_FAILED"          // 500
	ErrGenerationFailed      ErrorCode = "GENERATION_FAILED"      // 502
	ErrGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE" // 503
)

// ScribeError represents a structured error with code, status, and details.
type ScribeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *ScribeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows errors.Is / errors.As to reach the wrapped cause.
func (e *ScribeError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ScribeError {
	return &ScribeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownTemplate creates a 400 error for artifact kinds with no registered template.
func NewUnknownTemplate(kind string) *ScribeError {
	return &ScribeError{
		Code:    ErrUnknownTemplate,
		Status:  400,
		Message: fmt.Sprintf("no template registered for artifact kind %q", kind),
		Details: map[string]any{"kind": kind},
	}
}

// NewNotFound creates a 404 error for when an artifact cannot be found.
func NewNotFound(id string) *ScribeError {
	return &ScribeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("artifact not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewPrerequisiteMissing creates a 422 error for a stage invoked without a
// usable source artifact. The generator is never called in this case.
func NewPrerequisiteMissing(stage, requires string) *ScribeError {
	return &ScribeError{
		Code:    ErrPrerequisiteMissing,
		Status:  422,
		Message: fmt.Sprintf("stage %q requires non-empty %s content", stage, requires),
		Details: map[string]any{"stage": stage, "requires": requires},
	}
}

// NewGenerationUnavailable creates a 503 error for a stage whose generation
// capability is disabled or not configured.
func NewGenerationUnavailable(stage, reason string) *ScribeError {
	return &ScribeError{
		Code:    ErrGenerationUnavailable,
		Status:  503,
		Message: fmt.Sprintf("generation unavailable for stage %q: %s", stage, reason),
		Details: map[string]any{"stage": stage, "reason": reason},
	}
}

// NewGenerationFailed creates a 502 error wrapping an upstream generator
// failure. The cause string is one of the adapter's error kinds so callers
// can decide to retry, switch model, or abort.
func NewGenerationFailed(stage, cause string, err error) *ScribeError {
	msg := fmt.Sprintf("generation failed for stage %q (%s)", stage, cause)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ScribeError{
		Code:    ErrGenerationFailed,
		Status:  502,
		Message: msg,
		Details: map[string]any{"stage": stage, "cause": cause},
		Err:     err,
	}
}

// NewExportFailed creates a 500 error for export I/O failures.
func NewExportFailed(err error) *ScribeError {
	msg := "export failed"
	if err != nil {
		msg = fmt.Sprintf("export failed: %v", err)
	}
	return &ScribeError{
		Code:    ErrExportFailed,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// NewCancelled creates a 499 error for a cancelled operation.
func NewCancelled(operation string) *ScribeError {
	return &ScribeError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ScribeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ScribeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is a ScribeError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*ScribeError); ok {
		return sErr.Code == code
	}
	return false
}

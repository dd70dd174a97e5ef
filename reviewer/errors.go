package reviewer

import (
	"errors"
	"fmt"
)

var (
	// ErrModelInvocation marks a failed completion call.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrNoStructuredOutput means the completion contained no {...} span.
	ErrNoStructuredOutput = errors.New("no JSON object found in model output")

	// ErrMalformedJSON means the {...} span did not decode as a JSON object.
	ErrMalformedJSON = errors.New("model output is not valid JSON")
)

// ModelError carries whatever the collaborator reported when a completion failed.
type ModelError struct {
	Provider   string
	Diagnostic string
	Err        error
}

func (e *ModelError) Error() string {
	msg := fmt.Sprintf("%s error", e.Provider)
	if e.Diagnostic != "" {
		msg += ": " + e.Diagnostic
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error { return e.Err }

func (e *ModelError) Is(target error) bool { return target == ErrModelInvocation }

// OutputError is returned when the analysis output cannot be turned into an
// Analysis. Raw is the full completion text, kept for manual inspection.
type OutputError struct {
	Raw string
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("parse analysis output: %v", e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

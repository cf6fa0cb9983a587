package overrides

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory  = errors.New("overrides: unknown category")
	ErrUnknownField     = errors.New("overrides: field is not part of the category")
	ErrFieldActive      = errors.New("overrides: field is already overridden")
	ErrFieldNotActive   = errors.New("overrides: field is not overridden")
	ErrValidationFailed = errors.New("overrides: validation failed")
	ErrSavePending      = errors.New("overrides: save already in progress")
	ErrSessionNotFound  = errors.New("overrides: editor session not found")
	ErrInvalidInput     = errors.New("overrides: invalid input")

	errMissingEntityID  = fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	errMissingSessionID = fmt.Errorf("%w: session id is required", ErrInvalidInput)
	errMissingClient    = errors.New("overrides: save client not configured")
	errMissingFetcher   = errors.New("overrides: entity fetcher not configured")
)

// SubmissionError wraps a rejected save mutation. Fields carries optional
// per-field detail reported by the server.
type SubmissionError struct {
	Message string
	Fields  map[string]string
	Err     error
}

func (e *SubmissionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "save rejected"
	}
	if e.Err != nil {
		return fmt.Sprintf("overrides: %s: %v", msg, e.Err)
	}
	return "overrides: " + msg
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// AsSubmissionError normalizes any client error into a *SubmissionError.
func AsSubmissionError(err error) *SubmissionError {
	if err == nil {
		return nil
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr
	}
	return &SubmissionError{Message: "save failed", Err: err}
}

// ValidationError is returned by Save when local validation blocks submission.
type ValidationError struct {
	Fields ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("overrides: validation failed for %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-overrides/components/overrides"
)

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// StatusFor maps an operation error to its HTTP status.
func StatusFor(err error) int {
	var subErr *overrides.SubmissionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, overrides.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, overrides.ErrSessionNotFound), errors.Is(err, overrides.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, overrides.ErrSavePending), errors.Is(err, overrides.ErrFieldActive):
		return http.StatusConflict
	case errors.As(err, &subErr):
		return http.StatusBadGateway
	case errors.Is(err, overrides.ErrUnknownField), errors.Is(err, overrides.ErrFieldNotActive),
		errors.Is(err, overrides.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the response body for err, including per-field detail
// from validation and submission failures.
func ErrorBody(err error) ErrorResponse {
	body := ErrorResponse{Error: err.Error()}
	var valErr *overrides.ValidationError
	if errors.As(err, &valErr) {
		body.Fields = valErr.Fields
	}
	var subErr *overrides.SubmissionError
	if errors.As(err, &subErr) && len(subErr.Fields) > 0 {
		body.Fields = subErr.Fields
	}
	return body
}

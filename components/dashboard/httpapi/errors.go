package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error      string                `json:"error"`
	Violations []dashboard.Violation `json:"violations,omitempty"`
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	var (
		validation *dashboard.ValidationError
		duplicate  *dashboard.DuplicateWidgetError
		notFound   *dashboard.WidgetNotFoundError
		unknown    *dashboard.UnknownDefinitionError
		outOfRange *dashboard.IndexOutOfRangeError
		transport  *dashboard.TransportError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &duplicate), errors.Is(err, dashboard.ErrCommitInProgress):
		return http.StatusConflict
	case errors.As(err, &notFound), errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &outOfRange):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the body for err, including violations when present.
func NewErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var validation *dashboard.ValidationError
	if errors.As(err, &validation) {
		resp.Violations = validation.Violations
	}
	return resp
}

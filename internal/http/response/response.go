// Package response contains the helpers building the JSON error bodies of
// the HTTP API. Errors carry a short non-technical message; validation
// failures additionally list the violated rules.
package response

import (
	"fmt"

	"github.com/go-playground/validator"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Error returns an ErrorResponse with the given message.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ValidationFailed returns the standard validation error body with an
// explicit list of violated rules.
func ValidationFailed(details ...string) ErrorResponse {
	return ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	}
}

// ValidationError translates validator violations into the standard
// validation error body, one human-readable rule per violation.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var details []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", err.Field()))
		case "min":
			details = append(details, fmt.Sprintf("%s must be at least %s characters long", err.Field(), err.Param()))
		case "max":
			details = append(details, fmt.Sprintf("%s must be less than %s characters", err.Field(), err.Param()))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email address", err.Field()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return ValidationFailed(details...)
}

package identity

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// APIResponse is the uniform envelope every JSON endpoint replies with,
// success and failure alike.
type APIResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Response   any    `json:"response"`
}

// NewAPIResponse builds an envelope for the given status code. The status
// field carries the canonical reason phrase for the code.
func NewAPIResponse(statusCode int, message string, payload any) APIResponse {
	return APIResponse{
		Success:    statusCode < http.StatusBadRequest,
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Message:    message,
		Response:   payload,
	}
}

// Respond writes an envelope with the given status code.
func Respond(c router.Context, statusCode int, message string, payload any) error {
	return c.JSON(statusCode, NewAPIResponse(statusCode, message, payload))
}

// RespondError maps an error to its envelope. Typed errors keep their HTTP
// status and message, validation errors carry their field map, anything
// untyped collapses to a 500.
func RespondError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return Respond(c, http.StatusInternalServerError, "Internal Server Error", nil)
	}

	if richErr.Category == errors.CategoryValidation && len(richErr.ValidationMap()) > 0 {
		return Respond(c, http.StatusUnprocessableEntity, "Validation Error", richErr.ValidationMap())
	}

	statusCode := richErr.Code
	if statusCode == 0 {
		statusCode = categoryStatusCode(richErr.Category)
	}

	message := richErr.Message
	if statusCode == http.StatusInternalServerError {
		// internal details never leak into the envelope
		message = "Internal Server Error"
	}

	return Respond(c, statusCode, message, nil)
}

func categoryStatusCode(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusUnauthorized:
		errorType = "unauthorized"
	case http.StatusConflict:
		errorType = "conflict"
	case http.StatusRequestEntityTooLarge:
		errorType = "payload_too_large"
	case http.StatusUnprocessableEntity:
		errorType = "unprocessable_entity"
	case http.StatusPreconditionRequired:
		errorType = "confirmation_required"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	body := ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}

	JSON(w, status, body)
}

// StatusFor maps domain errors onto HTTP status codes
func StatusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrDraftNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateProduct),
		errors.Is(err, domain.ErrEditorClosed),
		errors.Is(err, domain.ErrDescriptionPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	default:
		return http.StatusInternalServerError
	}
}

// DomainError sends err with the status StatusFor picks for it
func DomainError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}

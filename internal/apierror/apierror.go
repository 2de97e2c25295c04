// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictError carries per-field conflict details (409 on procesar).
type ConflictError struct {
	Detail   string            `json:"detail"`
	Detalles map[string]string `json:"detalles"`
}

func NewConflict(detalles map[string]string) *ConflictError {
	return &ConflictError{Detail: "Se encontraron conflictos.", Detalles: detalles}
}

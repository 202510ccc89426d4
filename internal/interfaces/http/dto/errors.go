package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeUpstream    = "UPSTREAM_ERROR"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain codes
// come straight from the document screens; the rest are transport-level.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeUpstream:    http.StatusBadGateway,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	"NOT_FOUND":             http.StatusNotFound,
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_ITEM_NAME":     http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_PRICE":         http.StatusBadRequest,
	"INVALID_DISCOUNT":      http.StatusBadRequest,
	"FORBIDDEN":             http.StatusForbidden,
	"READ_ONLY":             http.StatusForbidden,
	"INVALID_STATE":         http.StatusConflict,
	"NOT_EDITING":           http.StatusConflict,
	"CONFIRMATION_REQUIRED": http.StatusPreconditionRequired,
	"ACTION_IN_FLIGHT":      http.StatusConflict,
	"RECEIPT_EXISTS":        http.StatusConflict,
	"NO_QUOTATION_NUMBER":   http.StatusConflict,
	"NO_ITEMS":              http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

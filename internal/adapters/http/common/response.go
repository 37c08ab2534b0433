// Package common holds the wire types shared by the HTTP layer.
//
// A separate package avoids import cycles between handlers and the
// router package.
package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ============================================
// Error Envelope
// ============================================

// ErrorEnvelope is the wire form of every error response.
type ErrorEnvelope struct {
	StatusCode int            `json:"status_code"`
	Error      string         `json:"error"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

// ListEnvelope is the wire form of every paged list response.
type ListEnvelope struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ============================================
// Request ID
// ============================================

// RequestIDKey is the gin context key and response header for the
// per-request ID.
const RequestIDKey = "X-Request-ID"

// GetRequestID returns the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// SetRequestID stores the request ID in the gin context and echoes it
// in the response header.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Response Helpers
// ============================================

// RespondList sends a paged list response.
func RespondList(c *gin.Context, items any, total, offset, limit int) {
	c.JSON(http.StatusOK, ListEnvelope{
		Items:  items,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	})
}

// RespondError sends an error envelope with an explicit code.
func RespondError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorEnvelope{
		StatusCode: statusCode,
		Error:      code,
		Message:    message,
	})
}

// RespondErrorDetails sends an error envelope with details attached.
func RespondErrorDetails(c *gin.Context, statusCode int, code, message string, details map[string]any) {
	c.JSON(statusCode, ErrorEnvelope{
		StatusCode: statusCode,
		Error:      code,
		Message:    message,
		Details:    details,
	})
}

// ============================================
// Domain Error Mapping
// ============================================

// HandleDomainError translates a domain error into the wire envelope.
//
// Every error kind the application layer produces has a stable wire
// code; anything unrecognized answers 500 without leaking internals.
func HandleDomainError(c *gin.Context, err error) {
	// Field-level validation failures carry the offending field.
	var valErr domainerrors.ValidationError
	if errors.As(err, &valErr) {
		RespondErrorDetails(c, http.StatusBadRequest,
			domainerrors.CodeValidation, valErr.Message,
			map[string]any{"field": valErr.Field})
		return
	}

	if domainerrors.IsAuthorization(err) {
		RespondError(c, http.StatusUnauthorized,
			domainerrors.CodeAuthorization, err.Error())
		return
	}

	// Typed domain errors carry their own wire code.
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		RespondError(c, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	if domainerrors.IsNotFound(err) {
		RespondError(c, http.StatusNotFound,
			domainerrors.CodeItemNotFound, "item not found")
		return
	}

	if domainerrors.IsConflict(err) {
		RespondError(c, http.StatusConflict, "conflict", err.Error())
		return
	}

	RespondError(c, http.StatusInternalServerError,
		domainerrors.CodeUnexpected, "an unexpected error occurred")
}

// statusForCode maps a wire code to its HTTP status.
func statusForCode(code string) int {
	switch code {
	case domainerrors.CodeItemNotFound, domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeAuthorization:
		return http.StatusUnauthorized
	case domainerrors.CodeInvalidStatus, domainerrors.CodeNotEmpty, domainerrors.CodeValidation:
		return http.StatusBadRequest
	case domainerrors.CodeUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

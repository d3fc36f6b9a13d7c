// Package httputil turns application errors into JSON error bodies.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty means echo err.Error()
}

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrTooLarge, http.StatusRequestEntityTooLarge, "too_large", "The uploaded file exceeds the size limit"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "Nothing matched the request"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
}

func statusFor(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return m.status, ErrorResponse{Error: m.code, Message: msg}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
}

// HandleErrorGin writes the JSON error for err. Unmapped errors become a
// generic 500 and their text only reaches the log.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := statusFor(err)
	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}
	c.JSON(status, body)
}

// HandleBadRequestGin answers 400 for requests that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writePlain(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin answers 422 for requests that parsed but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writePlain(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writePlain(c *gin.Context, status int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("rejected request", slog.String("error_code", code), slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}

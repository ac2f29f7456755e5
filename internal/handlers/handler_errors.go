package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and writes the JSON
// error body. The machine-readable code is included when the error carries
// one so clients can branch without parsing messages.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := http.StatusInternalServerError
	message := fallbackMsg

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperrors.ErrProvider):
		status = http.StatusBadGateway
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
	} else {
		logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	}

	body := gin.H{"error": message}
	if code, ok := apperrors.CodeOf(err); ok {
		body["code"] = code
	}
	c.JSON(status, body)
}

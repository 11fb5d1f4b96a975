package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecocolecta/pickup-system/internal/core/domain"
)

// errorEnvelope mirrors the response envelope for the failure cases.
type errorEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures as a field→message map (422).
//   - Maps known domain errors to their deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorEnvelope) {
	// Malformed or missing input: report the field map.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorEnvelope{Message: "validation failed", Errors: ve.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorEnvelope{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes. Ownership failures and
	// missing rows share one 404 so existence never leaks.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorEnvelope{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, errorEnvelope{Message: "email already registered"}
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, errorEnvelope{Message: "not found"}
	case errors.Is(err, domain.ErrRecyclerUnavailable),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrRequestFinalized),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, errorEnvelope{Message: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorEnvelope{Message: "internal server error"}
}

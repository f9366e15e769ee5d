package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"craftstore/internal/apperr"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:        http.StatusBadRequest,
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindUnauthorized:      http.StatusUnauthorized,
	apperr.KindForbidden:         http.StatusForbidden,
	apperr.KindInsufficientFunds: http.StatusBadRequest,
	apperr.KindConflict:          http.StatusConflict,
	apperr.KindInternal:          http.StatusInternalServerError,
}

// respondError maps the error kind to an HTTP status exactly once, here.
// Internal errors are logged and answered with a generic message.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(statusByKind[kind], map[string]string{"error": err.Error()})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/api/middleware"
	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// ctxCaller extracts the caller injected by the Auth middleware and performs
// a fast-fail check before any service call: a zero profile id means the
// token is structurally valid but operationally unusable — reject with 401.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	caller, ok := c.Get(middleware.CallerKey).(ports.Caller)
	if !ok || caller.Role == "" || caller.ProfileID == 0 {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller, nil
}

// ctxTokenID extracts the token id (jti) injected by the Auth middleware.
func ctxTokenID(c echo.Context) (string, error) {
	tokenID, _ := c.Get(middleware.TokenIDKey).(string)
	if tokenID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return tokenID, nil
}

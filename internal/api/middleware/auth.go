package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

// Context keys used by Auth and read back by handlers.
const (
	CallerKey  = "caller"
	TokenIDKey = "token_id"
)

// SessionChecker reports whether a token's session is still live.
type SessionChecker interface {
	Exists(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the JWT, confirms its session has not been revoked, and
// injects the resolved Caller into context.
func Auth(jwtSecret string, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			caller, tokenID, ok := callerFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity claims")
			}

			// A structurally valid token is still rejected once its session
			// has been revoked by logout.
			live, err := sessions.Exists(c.Request().Context(), tokenID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session check failed")
			}
			if !live {
				return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
			}

			c.Set(CallerKey, caller)
			c.Set(TokenIDKey, tokenID)

			return next(c)
		}
	}
}

// callerFromClaims rebuilds the Caller triple from the token claims.
// JSON numbers decode as float64, subjects as strings.
func callerFromClaims(claims jwt.MapClaims) (ports.Caller, string, bool) {
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	profileID, _ := claims["profile_id"].(float64)
	tokenID, _ := claims["jti"].(string)

	identityID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || role == "" || profileID == 0 || tokenID == "" {
		return ports.Caller{}, "", false
	}

	return ports.Caller{
		IdentityID: identityID,
		Role:       role,
		ProfileID:  int64(profileID),
	}, tokenID, true
}

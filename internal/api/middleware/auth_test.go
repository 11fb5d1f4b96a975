package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

const testSecret = "test-secret"

type stubSessions struct {
	live map[string]bool
	err  error
}

func (s *stubSessions) Exists(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.live[tokenID], nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        "7",
		"role":       "citizen",
		"profile_id": float64(3),
		"jti":        "tok-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string, sessions SessionChecker) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := Auth(testSecret, sessions)(next)(c)
	return rec, c, err
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	sessions := &stubSessions{live: map[string]bool{"tok-1": true}}

	rec, c, err := runAuth(t, "Bearer "+token, sessions)
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	caller, ok := c.Get(CallerKey).(ports.Caller)
	if !ok {
		t.Fatal("caller missing from context")
	}
	if caller.IdentityID != 7 || caller.Role != "citizen" || caller.ProfileID != 3 {
		t.Fatalf("unexpected caller: %+v", caller)
	}
	if tokenID, _ := c.Get(TokenIDKey).(string); tokenID != "tok-1" {
		t.Fatalf("unexpected token id: %q", tokenID)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, "", &stubSessions{})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims())
	_, _, err := runAuth(t, "Bearer "+token, &stubSessions{})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	_, _, err := runAuth(t, "Bearer "+token, &stubSessions{live: map[string]bool{"tok-1": true}})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_RevokedSession(t *testing.T) {
	// A token that parses fine is still rejected once logout removed its
	// session key.
	token := signToken(t, testSecret, validClaims())
	_, _, err := runAuth(t, "Bearer "+token, &stubSessions{live: map[string]bool{}})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_MissingClaims(t *testing.T) {
	claims := validClaims()
	delete(claims, "profile_id")
	token := signToken(t, testSecret, claims)

	_, _, err := runAuth(t, "Bearer "+token, &stubSessions{live: map[string]bool{"tok-1": true}})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, _, err := runAuth(t, "Token abc", &stubSessions{})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected %d, got %d", want, he.Code)
	}
}

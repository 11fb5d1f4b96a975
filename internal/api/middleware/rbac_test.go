package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecocolecta/pickup-system/internal/core/ports"
)

func runRBAC(t *testing.T, caller *ports.Caller, allowed ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(CallerKey, *caller)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RBAC(allowed...)(next)(c)
}

func TestRBAC_AllowsMatchingRole(t *testing.T) {
	err := runRBAC(t, &ports.Caller{IdentityID: 1, Role: "citizen", ProfileID: 2}, "citizen")
	if err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestRBAC_ForbidsOtherRole(t *testing.T) {
	err := runRBAC(t, &ports.Caller{IdentityID: 1, Role: "recycler", ProfileID: 2}, "citizen")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestRBAC_ForbidsMissingCaller(t *testing.T) {
	err := runRBAC(t, nil, "citizen")
	assertHTTPStatus(t, err, http.StatusForbidden)
}

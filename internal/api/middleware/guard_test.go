package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/core/service"
)

type fakeSession bool

func (s fakeSession) IsAuthenticated() bool { return bool(s) }

func runGuard(t *testing.T, authenticated bool, path string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Guard(service.NewGuard(fakeSession(authenticated)), "/health", "/metrics")
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGuard_ProtectedRedirectsToLogin(t *testing.T) {
	rec, called := runGuard(t, false, "/cart")

	if called {
		t.Fatalf("protected handler must not run while logged out")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected Location /login, got %q", loc)
	}
}

func TestGuard_AuthOnlyRedirectsHome(t *testing.T) {
	rec, called := runGuard(t, true, "/register")

	if called {
		t.Fatalf("auth-only handler must not run while logged in")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("expected Location /, got %q", loc)
	}
}

func TestGuard_UnknownPathRedirectsHome(t *testing.T) {
	rec, called := runGuard(t, true, "/admin")

	if called || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_Allows(t *testing.T) {
	cases := []struct {
		authenticated bool
		path          string
	}{
		{false, "/"},
		{false, "/courses"},
		{false, "/courses/3/cart"},
		{false, "/login"},
		{true, "/cart"},
		{true, "/cart/checkout"},
		{true, "/profile"},
		{false, "/health"},
		{false, "/health/ready"},
		{false, "/metrics"},
	}

	for _, tc := range cases {
		rec, called := runGuard(t, tc.authenticated, tc.path)
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("%s (authenticated=%v): expected handler to run, got %d", tc.path, tc.authenticated, rec.Code)
		}
	}
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/job_portal/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": UserID(c), "role": Role(c), "email": Email(c)})
	}, Bearer(testSecret))
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Bearer(testSecret), RequireRole("admin"))
	e.GET("/root", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, Bearer(testSecret), RequireSuperAdmin([]string{"boss@example.com"}))
	return e
}

func signed(t *testing.T, role, email string) string {
	t.Helper()
	tok, _, err := tokens.NewIssuer(testSecret, time.Hour).Sign("u-1", role, email)
	require.NoError(t, err)
	return tok
}

func do(e *echo.Echo, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearer(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	foreign, _, err := tokens.NewIssuer([]byte("other"), time.Hour).Sign("u-1", "user", "x@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  string
		authz string
		want  int
	}{
		{name: "no header", path: "/me", want: http.StatusUnauthorized},
		{name: "no bearer prefix", path: "/me", authz: signed(t, "user", "u@example.com"), want: http.StatusUnauthorized},
		{name: "wrong secret", path: "/me", authz: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "valid", path: "/me", authz: "Bearer " + signed(t, "user", "u@example.com"), want: http.StatusOK},
		{name: "user on admin route", path: "/admin", authz: "Bearer " + signed(t, "user", "u@example.com"), want: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", authz: "Bearer " + signed(t, "admin", "a@example.com"), want: http.StatusOK},
		{name: "admin not on allow-list", path: "/root", authz: "Bearer " + signed(t, "admin", "a@example.com"), want: http.StatusForbidden},
		{name: "super admin", path: "/root", authz: "Bearer " + signed(t, "admin", "Boss@Example.com"), want: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(e, tt.path, tt.authz)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBearer_SetsContext(t *testing.T) {
	t.Parallel()

	rec := do(newTestEcho(), "/me", "Bearer "+signed(t, "admin", "a@example.com"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u-1","role":"admin","email":"a@example.com"}`, rec.Body.String())
}

package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/tokens"
)

const (
	CtxToken  = "user"
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
)

// Bearer validates "Authorization: Bearer <token>" and exposes the session
// claims under CtxUserID, CtxRole and CtxEmail.
func Bearer(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    CtxToken,
		TokenLookup:   "header:Authorization:Bearer ",
		KeyFunc:       tokens.KeyFunc(secret),
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokens.SessionClaims) },
		SuccessHandler: func(c echo.Context) {
			tok, ok := c.Get(CtxToken).(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := tok.Claims.(*tokens.SessionClaims); ok {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxRole, claims.Role)
				c.Set(CtxEmail, claims.Email)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		},
	})
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin admits only tokens whose email is on the allow-list.
// An empty list admits nobody.
func RequireSuperAdmin(emails []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get(CtxEmail).(string)
			if email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
			}
			if !slices.Contains(emails, strings.ToLower(email)) {
				return echo.NewHTTPError(http.StatusForbidden, "super admin access required")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(CtxUserID).(string)
	return v
}

func Email(c echo.Context) string {
	v, _ := c.Get(CtxEmail).(string)
	return v
}

func Role(c echo.Context) string {
	v, _ := c.Get(CtxRole).(string)
	return v
}

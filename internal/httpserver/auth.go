package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/metrics"
	"github.com/Skotchmaster/job_portal/internal/middleware/auth"
	"github.com/Skotchmaster/job_portal/internal/service"
	"github.com/Skotchmaster/job_portal/internal/transport"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Metrics *metrics.Metrics
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "register", err)
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Role:       req.Role,
	})
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "register", http.StatusBadRequest, "Name, email and password are required")
	case errors.Is(err, service.ErrConflict):
		return fail(l, "register", http.StatusBadRequest, "User already exists")
	case err != nil:
		return serverError(l, "register", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": strings.ToUpper(user.Role) + " registered successfully!",
		"user":    transport.NewUserSummary(user),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "login", err)
	}

	s, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.Metrics.AuthAttempt("password", "failure")
		switch {
		case errors.Is(err, service.ErrUnknownUser):
			return fail(l, "login", http.StatusUnauthorized, "Invalid credentials: user not found")
		case errors.Is(err, service.ErrWrongProvider):
			return fail(l, "login", http.StatusBadRequest, "Please log in using Google")
		case errors.Is(err, service.ErrWrongPassword):
			return fail(l, "login", http.StatusUnauthorized, "Invalid password")
		default:
			return serverError(l, "login", err)
		}
	}
	h.Metrics.AuthAttempt("password", "success")

	l.Info("login_success", "user_id", s.User.ID, "role", s.User.Role)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:    strings.ToUpper(s.User.Role) + " login successful",
		Token:      s.Token,
		ID:         s.User.ID,
		Name:       s.User.Name,
		Email:      s.User.Email,
		Role:       s.User.Role,
		Department: s.User.Department,
	})
}

func (h *AuthHTTP) GoogleLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.google_login")

	var req transport.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("google_login_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Google token"})
	}

	s, err := h.Svc.GoogleLogin(ctx, req.Token)
	if err != nil {
		h.Metrics.AuthAttempt("google", "failure")
		if errors.Is(err, service.ErrInvalidToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Google token"})
		}
		return serverError(l, "google_login", err)
	}
	h.Metrics.AuthAttempt("google", "success")

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Google login successful",
		"token":   s.Token,
		"user":    s.User,
	})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	user, err := h.Svc.Profile(ctx, auth.UserID(c))
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "profile", http.StatusNotFound, "User not found")
	case err != nil:
		return serverError(l, "profile", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_password")

	var req transport.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_password", err)
	}

	err := h.Svc.UpdatePassword(ctx, auth.UserID(c), req.NewPassword)
	switch {
	case errors.Is(err, service.ErrForbidden):
		return fail(l, "update_password", http.StatusBadRequest, "Google users cannot change password here")
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "update_password", http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "update_password", http.StatusNotFound, "User not found")
	case err != nil:
		return serverError(l, "update_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "forgot_password", err)
	}

	err := h.Svc.ForgotPassword(ctx, req.Email)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "forgot_password", http.StatusNotFound, "User not found with that email.")
	case errors.Is(err, service.ErrForbidden):
		return fail(l, "forgot_password", http.StatusBadRequest, "Google users cannot reset password this way.")
	case err != nil:
		return serverError(l, "forgot_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent successfully!"})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "reset_password", err)
	}

	role, err := h.Svc.ResetPassword(ctx, req.Email, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "reset_password", http.StatusBadRequest, "Email and new password are required.")
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "reset_password", http.StatusNotFound, "User not found.")
	case errors.Is(err, service.ErrForbidden):
		return fail(l, "reset_password", http.StatusBadRequest, "Google users cannot reset password here.")
	case err != nil:
		return serverError(l, "reset_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful.", "role": role})
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/metrics"
	"github.com/Skotchmaster/job_portal/internal/service"
	"github.com/Skotchmaster/job_portal/internal/transport"
)

type AdminHTTP struct {
	Svc     *service.AdminService
	Metrics *metrics.Metrics
}

func (h *AdminHTTP) RequestAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.request_admin")

	var req transport.AdminAccessRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "request_admin", err)
	}

	created, err := h.Svc.RequestAdminAccess(ctx, req.Name, req.Email, req.Department)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "request_admin", http.StatusBadRequest, "All fields required")
	case errors.Is(err, service.ErrConflict):
		return fail(l, "request_admin", http.StatusBadRequest, "Request already submitted")
	case err != nil:
		return serverError(l, "request_admin", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Request submitted successfully",
		"newRequest": created,
	})
}

func (h *AdminHTTP) AdminRequests(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.admin_requests")

	reqs, err := h.Svc.ListAdminRequests(ctx)
	if err != nil {
		return serverError(l, "admin_requests", err)
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *AdminHTTP) HandleAdminRequest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.handle_admin_request", "request_id", c.Param("id"))

	var req transport.HandleAdminRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "handle_admin_request", err)
	}

	d, err := h.Svc.HandleAdminRequest(ctx, c.Param("id"), req.Action)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "handle_admin_request", http.StatusNotFound, "Request not found")
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "handle_admin_request", http.StatusBadRequest, "Invalid action")
	case errors.Is(err, service.ErrAlreadyHandled):
		return fail(l, "handle_admin_request", http.StatusConflict, "Request already handled")
	case err != nil:
		return serverError(l, "handle_admin_request", err)
	}
	h.Metrics.AdminDecision(d.Action)

	return c.JSON(http.StatusOK, echo.Map{"message": decisionMessage(d)})
}

func decisionMessage(d *service.Decision) string {
	switch {
	case d.AlreadyAdmin:
		return "User already an admin"
	case d.Action == service.ActionReject && d.EmailSent:
		return "Admin request rejected and email sent"
	case d.Action == service.ActionReject:
		return "Admin request rejected but email could not be sent"
	case d.EmailSent:
		return "Admin approved and email sent to " + d.Request.Email
	default:
		return "Admin approved but email could not be sent to " + d.Request.Email
	}
}

// Dashboard returns every admin request together with the current admins.
func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	reqs, err := h.Svc.ListAdminRequests(ctx)
	if err != nil {
		return serverError(l, "dashboard", err)
	}
	admins, err := h.Svc.ListAdmins(ctx)
	if err != nil {
		return serverError(l, "dashboard", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs, "admins": admins})
}

func (h *AdminHTTP) DeleteAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_admin", "user_id", c.Param("id"))

	err := h.Svc.DeleteAdmin(ctx, c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "delete_admin", http.StatusNotFound, "Admin not found")
	case err != nil:
		return serverError(l, "delete_admin", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin deleted successfully"})
}

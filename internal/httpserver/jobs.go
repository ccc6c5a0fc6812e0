package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/middleware/auth"
	"github.com/Skotchmaster/job_portal/internal/service"
	"github.com/Skotchmaster/job_portal/internal/transport"
	"github.com/Skotchmaster/job_portal/internal/util"
)

type JobsHTTP struct {
	Svc *service.JobService
}

func (h *JobsHTTP) ListJobs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	res, err := h.Svc.ListJobs(ctx, offset, limit)
	if err != nil {
		return serverError(l, "list_jobs", err)
	}
	if page < 1 {
		page = 1
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       res.Total,
			"total_pages": util.TotalPages(res.Total, limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < res.Total,
		},
	})
}

func (h *JobsHTTP) GetJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.get", "job_id", c.Param("id"))

	job, err := h.Svc.GetJob(ctx, c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "get_job", http.StatusNotFound, "Job not found")
	case err != nil:
		return serverError(l, "get_job", err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobsHTTP) CreateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.create")

	var req transport.CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_job", err)
	}

	job, err := h.Svc.CreateJob(ctx, auth.Email(c), service.JobInput{
		Title:          req.Title,
		Description:    req.Description,
		Qualifications: req.Qualifications,
		Department:     req.Department,
		RequiredSkills: req.RequiredSkills,
		Deadline:       req.Deadline,
	})
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "create_job", http.StatusBadRequest, "Job title is required")
	case err != nil:
		return serverError(l, "create_job", err)
	}
	return c.JSON(http.StatusCreated, job)
}

func (h *JobsHTTP) UpdateJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.update", "job_id", c.Param("id"))

	var req transport.UpdateJobRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_job", err)
	}

	job, err := h.Svc.UpdateJob(ctx, auth.Email(c), c.Param("id"), service.JobPatch{
		Title:          req.Title,
		Description:    req.Description,
		Qualifications: req.Qualifications,
		Department:     req.Department,
		RequiredSkills: req.RequiredSkills,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return jobError(l, "update_job", err)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *JobsHTTP) DeleteJob(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.delete", "job_id", c.Param("id"))

	if err := h.Svc.DeleteJob(ctx, auth.Email(c), c.Param("id")); err != nil {
		return jobError(l, "delete_job", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Job deleted successfully"})
}

func (h *JobsHTTP) Apply(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.apply")

	var req transport.ApplyRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "apply", err)
	}
	if strings.TrimSpace(req.JobID) == "" {
		return fail(l, "apply", http.StatusBadRequest, "Job id is required")
	}

	app, err := h.Svc.Apply(ctx, auth.UserID(c), req.JobID, req.ResumeURL)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "apply", http.StatusNotFound, "Job not found")
	case errors.Is(err, service.ErrConflict):
		return fail(l, "apply", http.StatusConflict, "You have already applied for this job")
	case errors.Is(err, service.ErrForbidden):
		return fail(l, "apply", http.StatusForbidden, "Applications for this job are closed")
	case err != nil:
		return serverError(l, "apply", err)
	}
	return c.JSON(http.StatusCreated, app)
}

func (h *JobsHTTP) MyApplications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.my_applications")

	apps, err := h.Svc.MyApplications(ctx, auth.UserID(c))
	if err != nil {
		return serverError(l, "my_applications", err)
	}
	return c.JSON(http.StatusOK, apps)
}

// AdminApplications lists applications on jobs posted by :email, which must
// be the caller's own address.
func (h *JobsHTTP) AdminApplications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.admin_applications")

	if !strings.EqualFold(c.Param("email"), auth.Email(c)) {
		return fail(l, "admin_applications", http.StatusForbidden, "You can only view applications for your own jobs")
	}

	apps, err := h.Svc.ApplicationsForAdmin(ctx, auth.Email(c))
	if err != nil {
		return serverError(l, "admin_applications", err)
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *JobsHTTP) UpdateApplicationStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "jobs.update_application_status", "application_id", c.Param("id"))

	var req transport.ApplicationStatusRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_application_status", err)
	}

	app, err := h.Svc.UpdateApplicationStatus(ctx, auth.Email(c), c.Param("id"), req.Status)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, "update_application_status", http.StatusBadRequest, "Invalid status")
	case errors.Is(err, service.ErrNotFound):
		return fail(l, "update_application_status", http.StatusNotFound, "Application not found")
	case errors.Is(err, service.ErrForbidden):
		return fail(l, "update_application_status", http.StatusForbidden, "You can only decide applications for your own jobs")
	case errors.Is(err, service.ErrAlreadyHandled):
		return fail(l, "update_application_status", http.StatusConflict, "Application already decided")
	case err != nil:
		return serverError(l, "update_application_status", err)
	}
	return c.JSON(http.StatusOK, app)
}

func jobError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fail(l, op, http.StatusNotFound, "Job not found")
	case errors.Is(err, service.ErrForbidden):
		return fail(l, op, http.StatusForbidden, "You can only modify your own jobs")
	case errors.Is(err, service.ErrInvalidInput):
		return fail(l, op, http.StatusBadRequest, "Job title is required")
	default:
		return serverError(l, op, err)
	}
}

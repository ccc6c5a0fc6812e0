package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/job_portal/internal/metrics"
	"github.com/Skotchmaster/job_portal/internal/middleware/auth"
	"github.com/Skotchmaster/job_portal/internal/middleware/ratelimit"
	"github.com/Skotchmaster/job_portal/internal/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AuthHandler  *AuthHTTP
	AdminHandler *AdminHTTP
	JobsHandler  *JobsHTTP

	JWTSecret   []byte
	SuperAdmins []string
	Limiter     *ratelimit.Limiter
	Metrics     *metrics.Metrics
	Store       Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	bearer := auth.Bearer(d.JWTSecret)
	superAdmin := []echo.MiddlewareFunc{bearer, auth.RequireSuperAdmin(d.SuperAdmins)}
	onlyAdmin := []echo.MiddlewareFunc{bearer, auth.RequireRole(models.RoleAdmin)}

	var limited []echo.MiddlewareFunc
	if d.Limiter != nil {
		limited = append(limited, d.Limiter.Middleware())
	}

	a := e.Group("/api/auth")

	a.POST("/register", d.AuthHandler.Register)
	a.POST("/login", d.AuthHandler.Login, limited...)
	a.POST("/google-login", d.AuthHandler.GoogleLogin)
	a.POST("/forgot-password", d.AuthHandler.ForgotPassword, limited...)
	a.POST("/reset-password", d.AuthHandler.ResetPassword)
	a.GET("/profile", d.AuthHandler.Profile, bearer)
	a.PUT("/update-password", d.AuthHandler.UpdatePassword, bearer)

	// Without a configured super-admin list these stay open, as deployed
	// clients call them without a token.
	var legacyGuard []echo.MiddlewareFunc
	if len(d.SuperAdmins) > 0 {
		legacyGuard = superAdmin
	}
	a.POST("/request-admin", d.AdminHandler.RequestAdmin)
	a.GET("/admin-requests", d.AdminHandler.AdminRequests, legacyGuard...)
	a.POST("/handle-admin-request/:id", d.AdminHandler.HandleAdminRequest, legacyGuard...)

	sa := e.Group("/api/superadmin", superAdmin...)

	sa.GET("/requests", d.AdminHandler.Dashboard)
	sa.POST("/handle/:id", d.AdminHandler.HandleAdminRequest)
	sa.DELETE("/delete-admin/:id", d.AdminHandler.DeleteAdmin)

	jobs := e.Group("/api/jobs")

	jobs.GET("", d.JobsHandler.ListJobs)
	jobs.GET("/:id", d.JobsHandler.GetJob)
	jobs.POST("", d.JobsHandler.CreateJob, onlyAdmin...)
	jobs.PUT("/:id", d.JobsHandler.UpdateJob, onlyAdmin...)
	jobs.DELETE("/:id", d.JobsHandler.DeleteJob, onlyAdmin...)

	apps := e.Group("/api/applications", bearer)

	apps.POST("", d.JobsHandler.Apply)
	apps.GET("/me", d.JobsHandler.MyApplications)
	apps.GET("/admin/:email", d.JobsHandler.AdminApplications, auth.RequireRole(models.RoleAdmin))
	apps.PUT("/:id/status", d.JobsHandler.UpdateApplicationStatus, auth.RequireRole(models.RoleAdmin))
}

func (d *Deps) ready(c echo.Context) error {
	if d.Store == nil {
		return c.NoContent(http.StatusOK)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.Store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.NoContent(http.StatusOK)
}

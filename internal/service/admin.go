package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/hash"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/models"
	"github.com/Skotchmaster/job_portal/internal/notify"
	"github.com/Skotchmaster/job_portal/internal/repo"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"

	TempPasswordLength = 8
)

type AdminService struct {
	Users    repo.UserRepo
	Requests repo.AdminRequestRepo
	Mailer   notify.Mailer
	Events   events.Publisher

	// TempPassword overrides the generator; nil uses hash.TempPassword.
	TempPassword func() (string, error)
}

// Decision describes what HandleAdminRequest did.
type Decision struct {
	Request      *models.AdminRequest
	Action       string
	AlreadyAdmin bool
	Promoted     bool
	EmailSent    bool
}

func (s *AdminService) RequestAdminAccess(ctx context.Context, name, email, department string) (*models.AdminRequest, error) {
	email = normalizeEmail(email)
	name, department = strings.TrimSpace(name), strings.TrimSpace(department)
	l := logging.FromContext(ctx).With("svc", "admin.request_access", "email", email)

	if name == "" || email == "" || department == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.Requests.AdminRequestExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check admin request: %w", err)
	}
	if exists {
		l.Warn("request_admin_failed", "status", 400, "reason", "request already submitted")
		return nil, ErrConflict
	}

	req := &models.AdminRequest{Name: name, Email: email, Department: department, Status: models.StatusPending}
	if err := s.Requests.CreateAdminRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create admin request: %w", err)
	}

	publish(ctx, s.Events, req.ID, events.Event{Type: events.TypeAdminRequested, SubjectID: req.ID, Email: email,
		Attributes: map[string]string{"department": department}})
	l.Info("request_admin_success", "request_id", req.ID)
	return req, nil
}

func (s *AdminService) ListAdminRequests(ctx context.Context) ([]models.AdminRequest, error) {
	reqs, err := s.Requests.ListAdminRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admin requests: %w", err)
	}
	if reqs == nil {
		reqs = []models.AdminRequest{}
	}
	return reqs, nil
}

// HandleAdminRequest moves a Pending request to Accepted or Rejected. The
// credential change and the status change are committed before any email
// is attempted; a mail failure is reported in Decision.EmailSent only.
func (s *AdminService) HandleAdminRequest(ctx context.Context, id, action string) (*Decision, error) {
	l := logging.FromContext(ctx).With("svc", "admin.handle_request", "request_id", id, "action", action)

	req, err := s.Requests.FindAdminRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load admin request: %w", err)
	}

	if action != ActionAccept && action != ActionReject {
		return nil, ErrInvalidInput
	}
	if !req.IsPending() {
		l.Warn("handle_request_failed", "status", 409, "reason", "request already "+strings.ToLower(req.Status))
		return nil, ErrAlreadyHandled
	}

	if action == ActionReject {
		return s.reject(ctx, req)
	}
	return s.accept(ctx, req)
}

func (s *AdminService) accept(ctx context.Context, req *models.AdminRequest) (*Decision, error) {
	l := logging.FromContext(ctx).With("svc", "admin.accept", "request_id", req.ID)
	d := &Decision{Request: req, Action: ActionAccept}

	user, err := s.Users.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user != nil && user.Role == models.RoleAdmin {
		if err := s.setStatus(ctx, req, models.StatusAccepted); err != nil {
			return nil, err
		}
		d.AlreadyAdmin = true
		l.Info("accept_noop", "reason", "user already an admin")
		return d, nil
	}

	var tempPassword string
	if user != nil {
		user.Role = models.RoleAdmin
		if err := s.Users.SaveUser(ctx, user); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
		d.Promoted = true
	} else {
		tempPassword, err = s.newTempPassword()
		if err != nil {
			return nil, fmt.Errorf("generate temp password: %w", err)
		}
		pwHash, err := hash.HashPassword(tempPassword)
		if err != nil {
			return nil, fmt.Errorf("hash temp password: %w", err)
		}
		admin := &models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: pwHash,
			Provider:     models.ProviderLocal,
			Department:   req.Department,
			Role:         models.RoleAdmin,
		}
		if err := s.Users.CreateUser(ctx, admin); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("create admin: %w", err)
		}
	}

	if err := s.setStatus(ctx, req, models.StatusAccepted); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, req.ID, events.Event{Type: events.TypeAdminApproved, SubjectID: req.ID, Email: req.Email,
		Attributes: map[string]string{"promoted": fmt.Sprint(d.Promoted)}})

	d.EmailSent = notifyBestEffort(ctx, s.Mailer, notify.AdminApproved(req.Email, req.Name, tempPassword))
	l.Info("accept_success", "promoted", d.Promoted, "email_sent", d.EmailSent)
	return d, nil
}

func (s *AdminService) reject(ctx context.Context, req *models.AdminRequest) (*Decision, error) {
	if err := s.setStatus(ctx, req, models.StatusRejected); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, req.ID, events.Event{Type: events.TypeAdminRejected, SubjectID: req.ID, Email: req.Email})

	d := &Decision{Request: req, Action: ActionReject}
	d.EmailSent = notifyBestEffort(ctx, s.Mailer, notify.AdminRejected(req.Email, req.Name))
	logging.FromContext(ctx).Info("reject_success", "request_id", req.ID, "email_sent", d.EmailSent)
	return d, nil
}

func (s *AdminService) setStatus(ctx context.Context, req *models.AdminRequest, status string) error {
	if err := s.Requests.UpdateAdminRequestStatus(ctx, req.ID, status); err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	req.Status = status
	return nil
}

func (s *AdminService) newTempPassword() (string, error) {
	if s.TempPassword != nil {
		return s.TempPassword()
	}
	return hash.TempPassword(TempPasswordLength)
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.PublicUser, error) {
	admins, err := s.Users.ListUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	out := make([]models.PublicUser, 0, len(admins))
	for i := range admins {
		out = append(out, admins[i].Public())
	}
	return out, nil
}

// DeleteAdmin removes an admin account; ids of non-admin users are treated
// as missing.
func (s *AdminService) DeleteAdmin(ctx context.Context, id string) error {
	user, err := s.Users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.Role != models.RoleAdmin {
		return ErrNotFound
	}
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	publish(ctx, s.Events, id, events.Event{Type: events.TypeAdminRemoved, SubjectID: id, Email: user.Email})
	logging.FromContext(ctx).Info("delete_admin_success", "user_id", id)
	return nil
}

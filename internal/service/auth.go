package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/google"
	"github.com/Skotchmaster/job_portal/internal/hash"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/models"
	"github.com/Skotchmaster/job_portal/internal/notify"
	"github.com/Skotchmaster/job_portal/internal/repo"
	"github.com/Skotchmaster/job_portal/internal/tokens"
)

const MinPasswordLength = 6

type AuthService struct {
	Users     repo.UserRepo
	Tokens    *tokens.Issuer
	Google    google.Verifier
	Mailer    notify.Mailer
	Events    events.Publisher
	ClientURL string
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	Role       string
}

// Session is the result of any successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
	Created   bool
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	email := normalizeEmail(in.Email)
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.Users.FindUserByEmail(ctx, email); err == nil {
		l.Warn("register_error", "status", 409, "reason", "user already exists")
		return nil, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	role := models.RoleUser
	if in.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = models.DefaultDepartment
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: pwHash,
		Provider:     models.ProviderLocal,
		Department:   department,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, user.ID, events.Event{Type: events.TypeUserRegistered, SubjectID: user.ID, Email: email,
		Attributes: map[string]string{"role": role, "provider": models.ProviderLocal}})

	l.Info("register_success", "role", role)
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "user not found")
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsGoogle() {
		l.Warn("login_failed", "status", 400, "reason", "google account")
		return nil, ErrWrongProvider
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid password")
		return nil, ErrWrongPassword
	}

	return s.session(user, false)
}

func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.google_login")

	id, err := s.Google.Verify(ctx, idToken)
	if err != nil {
		l.Warn("google_login_failed", "status", 400, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !id.EmailVerified {
		l.Warn("google_login_failed", "status", 400, "reason", "email not verified")
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}

	email := normalizeEmail(id.Email)
	user, err := s.Users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.session(user, false)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	name := id.Name
	if name == "" {
		name = email
	}
	user = &models.User{
		Name:       name,
		Email:      email,
		Provider:   models.ProviderGoogle,
		GoogleID:   id.Subject,
		Picture:    id.Picture,
		Department: models.DefaultDepartment,
		Role:       models.RoleUser,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		// lost a race with a concurrent first sign-in
		if user, err = s.Users.FindUserByEmail(ctx, email); err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		return s.session(user, false)
	}

	publish(ctx, s.Events, user.ID, events.Event{Type: events.TypeUserGoogleCreated, SubjectID: user.ID, Email: email})
	l.Info("google_user_created", "user_id", user.ID)
	return s.session(user, true)
}

func (s *AuthService) session(user *models.User, created bool) (*Session, error) {
	token, exp, err := s.Tokens.Sign(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user.Public(), Created: created}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.update_password", "user_id", userID)

	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	// google accounts are refused whatever the input
	if user.IsGoogle() {
		l.Warn("update_password_failed", "status", 400, "reason", "google account")
		return ErrForbidden
	}
	if len(newPassword) < MinPasswordLength {
		return ErrInvalidInput
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	l.Info("update_password_success")
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password", "email", email)

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.IsGoogle() {
		return ErrForbidden
	}

	msg := notify.PasswordReset(user.Email, user.Name, notify.ResetLink(s.ClientURL, user.Email))
	if err := sendMail(ctx, s.Mailer, msg); err != nil {
		l.Error("forgot_password_failed", "status", 500, "reason", "mail dispatch", "error", err)
		return fmt.Errorf("send reset mail: %w", err)
	}

	l.Info("forgot_password_mail_sent")
	return nil
}

// ResetPassword overwrites the hash of a local account identified by email
// alone and returns the account role.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.reset_password", "email", email)

	if email == "" || newPassword == "" {
		return "", ErrInvalidInput
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user.IsGoogle() {
		return "", ErrForbidden
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return "", err
	}
	l.Info("reset_password_success")
	return user.Role, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *models.User, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = pwHash
	if err := s.Users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("save user: %w", err)
	}
	publish(ctx, s.Events, user.ID, events.Event{Type: events.TypePasswordChanged, SubjectID: user.ID, Email: user.Email})
	return nil
}

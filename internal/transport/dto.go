package transport

import (
	"time"

	"github.com/Skotchmaster/job_portal/internal/models"
)

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type AdminAccessRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type HandleAdminRequest struct {
	Action string `json:"action"`
}

// UserSummary is the short user shape returned by register.
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func NewUserSummary(u *models.PublicUser) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Department: u.Department, Role: u.Role}
}

type LoginResponse struct {
	Message    string `json:"message"`
	Token      string `json:"token"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type CreateJobRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Qualifications string     `json:"qualifications"`
	Department     string     `json:"department"`
	RequiredSkills []string   `json:"requiredSkills"`
	Deadline       *time.Time `json:"deadline"`
}

// UpdateJobRequest leaves fields absent from the body untouched.
type UpdateJobRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Qualifications *string    `json:"qualifications"`
	Department     *string    `json:"department"`
	RequiredSkills *[]string  `json:"requiredSkills"`
	Deadline       *time.Time `json:"deadline"`
}

type ApplyRequest struct {
	JobID     string `json:"jobId"`
	ResumeURL string `json:"resumeUrl"`
}

type ApplicationStatusRequest struct {
	Status string `json:"status"`
}

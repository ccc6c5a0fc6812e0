package models

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"

	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"

	DefaultDepartment = "Not Set"
)

// User is a credential record. PasswordHash is set iff Provider is local.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name         string    `gorm:"not null" bson:"name" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	Provider     string    `gorm:"not null;default:local" bson:"provider" json:"provider"`
	GoogleID     string    `gorm:"index" bson:"googleId,omitempty" json:"-"`
	Picture      string    `bson:"picture,omitempty" json:"picture,omitempty"`
	Department   string    `gorm:"not null;default:'Not Set'" bson:"department" json:"department"`
	Role         string    `gorm:"not null;default:user" bson:"role" json:"role"`
	Skills       []string  `gorm:"serializer:json" bson:"skills" json:"skills"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsGoogle() bool { return u.Provider == ProviderGoogle }

// PublicUser is the projection returned to clients; it never carries the hash.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Provider   string    `json:"provider"`
	Picture    string    `json:"picture,omitempty"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Provider:   u.Provider,
		Picture:    u.Picture,
		Skills:     skills,
		CreatedAt:  u.CreatedAt,
	}
}

type AdminRequest struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name       string    `gorm:"not null" bson:"name" json:"name"`
	Email      string    `gorm:"index;not null" bson:"email" json:"email"`
	Department string    `gorm:"not null" bson:"department" json:"department"`
	Status     string    `gorm:"not null;default:Pending" bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (AdminRequest) TableName() string { return "adminrequests" }

func (r *AdminRequest) IsPending() bool { return r.Status == StatusPending }

type Job struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Title          string     `gorm:"not null" bson:"title" json:"title"`
	Description    string     `bson:"description" json:"description"`
	Qualifications string     `bson:"qualifications" json:"qualifications"`
	Department     string     `gorm:"index" bson:"department" json:"department"`
	RequiredSkills []string   `gorm:"serializer:json" bson:"requiredSkills" json:"requiredSkills"`
	Deadline       *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	PostedBy       string     `gorm:"index;not null" bson:"postedBy" json:"postedBy"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func (Job) TableName() string { return "jobs" }

// Closed reports whether applications are no longer accepted at now.
func (j *Job) Closed(now time.Time) bool {
	return j.Deadline != nil && now.After(*j.Deadline)
}

type Application struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	JobID          string    `gorm:"not null;uniqueIndex:idx_job_applicant" bson:"jobId" json:"jobId"`
	JobTitle       string    `bson:"jobTitle" json:"jobTitle"`
	JobPostedBy    string    `gorm:"index;not null" bson:"jobPostedBy" json:"-"`
	ApplicantID    string    `gorm:"not null;uniqueIndex:idx_job_applicant" bson:"applicantId" json:"applicantId"`
	ApplicantName  string    `bson:"applicantName" json:"applicantName"`
	ApplicantEmail string    `gorm:"not null" bson:"applicantEmail" json:"applicantEmail"`
	ResumeURL      string    `bson:"resumeUrl" json:"resumeUrl"`
	Status         string    `gorm:"not null;default:Pending" bson:"status" json:"status"`
	AppliedOn      time.Time `bson:"appliedOn" json:"appliedOn"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }

// All lists every gorm-managed model, in migration order.
func All() []any {
	return []any{&User{}, &AdminRequest{}, &Job{}, &Application{}}
}

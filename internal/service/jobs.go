package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/models"
	"github.com/Skotchmaster/job_portal/internal/notify"
	"github.com/Skotchmaster/job_portal/internal/repo"
)

type JobService struct {
	Jobs         repo.JobRepo
	Applications repo.ApplicationRepo
	Users        repo.UserRepo
	Mailer       notify.Mailer
	Events       events.Publisher
	Now          func() time.Time
}

type JobInput struct {
	Title          string
	Description    string
	Qualifications string
	Department     string
	RequiredSkills []string
	Deadline       *time.Time
}

// JobPatch carries only the fields to change.
type JobPatch struct {
	Title          *string
	Description    *string
	Qualifications *string
	Department     *string
	RequiredSkills *[]string
	Deadline       *time.Time
}

type JobPage struct {
	Items []models.Job
	Total int64
}

func (s *JobService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *JobService) CreateJob(ctx context.Context, adminEmail string, in JobInput) (*models.Job, error) {
	l := logging.FromContext(ctx).With("svc", "jobs.create", "posted_by", adminEmail)

	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidInput
	}

	job := &models.Job{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Qualifications: in.Qualifications,
		Department:     in.Department,
		RequiredSkills: cleanSkills(in.RequiredSkills),
		Deadline:       in.Deadline,
		PostedBy:       normalizeEmail(adminEmail),
	}
	if err := s.Jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	publish(ctx, s.Events, job.ID, events.Event{Type: events.TypeJobPosted, SubjectID: job.ID, Email: job.PostedBy,
		Attributes: map[string]string{"title": job.Title, "department": job.Department}})
	l.Info("create_job_success", "job_id", job.ID)
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, offset, limit int) (*JobPage, error) {
	total, items, err := s.Jobs.ListJobs(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return &JobPage{Items: items, Total: total}, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.Jobs.FindJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}
	return job, nil
}

func (s *JobService) ownedJob(ctx context.Context, adminEmail, id string) (*models.Job, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != normalizeEmail(adminEmail) {
		return nil, ErrForbidden
	}
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, adminEmail, id string, p JobPatch) (*models.Job, error) {
	job, err := s.ownedJob(ctx, adminEmail, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, ErrInvalidInput
		}
		job.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.Qualifications != nil {
		job.Qualifications = *p.Qualifications
	}
	if p.Department != nil {
		job.Department = *p.Department
	}
	if p.RequiredSkills != nil {
		job.RequiredSkills = cleanSkills(*p.RequiredSkills)
	}
	if p.Deadline != nil {
		job.Deadline = p.Deadline
	}

	if err := s.Jobs.SaveJob(ctx, job); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save job: %w", err)
	}
	logging.FromContext(ctx).Info("update_job_success", "job_id", id)
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, adminEmail, id string) error {
	if _, err := s.ownedJob(ctx, adminEmail, id); err != nil {
		return err
	}
	if err := s.Applications.DeleteApplicationsForJob(ctx, id); err != nil {
		return fmt.Errorf("delete applications: %w", err)
	}
	if err := s.Jobs.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}

	publish(ctx, s.Events, id, events.Event{Type: events.TypeJobDeleted, SubjectID: id, Email: normalizeEmail(adminEmail)})
	logging.FromContext(ctx).Info("delete_job_success", "job_id", id)
	return nil
}

func (s *JobService) Apply(ctx context.Context, userID, jobID, resumeURL string) (*models.Application, error) {
	l := logging.FromContext(ctx).With("svc", "jobs.apply", "job_id", jobID, "user_id", userID)

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Closed(s.now()) {
		l.Warn("apply_failed", "status", 403, "reason", "deadline passed")
		return nil, ErrForbidden
	}

	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	exists, err := s.Applications.ApplicationExists(ctx, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	app := &models.Application{
		JobID:          job.ID,
		JobTitle:       job.Title,
		JobPostedBy:    job.PostedBy,
		ApplicantID:    user.ID,
		ApplicantName:  user.Name,
		ApplicantEmail: user.Email,
		ResumeURL:      strings.TrimSpace(resumeURL),
		Status:         models.StatusPending,
		AppliedOn:      s.now(),
	}
	if err := s.Applications.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	publish(ctx, s.Events, app.ID, events.Event{Type: events.TypeApplicationSubmitted, SubjectID: app.ID, Email: user.Email,
		Attributes: map[string]string{"job_id": job.ID}})
	l.Info("apply_success", "application_id", app.ID)
	return app, nil
}

func (s *JobService) ApplicationsForAdmin(ctx context.Context, adminEmail string) ([]models.Application, error) {
	apps, err := s.Applications.ListApplicationsByPoster(ctx, normalizeEmail(adminEmail))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *JobService) MyApplications(ctx context.Context, userID string) ([]models.Application, error) {
	apps, err := s.Applications.ListApplicationsByApplicant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// UpdateApplicationStatus decides a Pending application. The applicant is
// told by email on a best-effort basis.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, adminEmail, id, status string) (*models.Application, error) {
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, ErrInvalidInput
	}

	app, err := s.Applications.FindApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app.JobPostedBy != normalizeEmail(adminEmail) {
		return nil, ErrForbidden
	}
	if app.Status != models.StatusPending {
		return nil, ErrAlreadyHandled
	}

	if err := s.Applications.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	app.Status = status

	publish(ctx, s.Events, app.ID, events.Event{Type: events.TypeApplicationDecided, SubjectID: app.ID, Email: app.ApplicantEmail,
		Attributes: map[string]string{"status": status, "job_id": app.JobID}})
	notifyBestEffort(ctx, s.Mailer, notify.ApplicationStatus(app.ApplicantEmail, app.ApplicantName, app.JobTitle, status))
	return app, nil
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

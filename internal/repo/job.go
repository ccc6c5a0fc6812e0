package repo

import (
	"context"

	"github.com/Skotchmaster/job_portal/internal/models"
)

func (r *GormRepo) CreateJob(ctx context.Context, j *models.Job) error {
	ensureID(&j.ID)
	return translate(r.DB.WithContext(ctx).Create(j).Error)
}

func (r *GormRepo) FindJobByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *GormRepo) ListJobs(ctx context.Context, offset, limit int) (int64, []models.Job, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Job{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Job, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.Job{}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) SaveJob(ctx context.Context, j *models.Job) error {
	res := r.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ?", j.ID).Select("*").Omit("id", "created_at").Updates(j)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteJob(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	ensureID(&a.ID)
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	return translate(r.DB.WithContext(ctx).Create(a).Error)
}

func (r *GormRepo) FindApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *GormRepo) ApplicationExists(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListApplicationsByPoster(ctx context.Context, email string) ([]models.Application, error) {
	var apps []models.Application
	if err := r.DB.WithContext(ctx).Where("job_posted_by = ?", email).Order("applied_on DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *GormRepo) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var apps []models.Application
	if err := r.DB.WithContext(ctx).Where("applicant_id = ?", applicantID).Order("applied_on DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *GormRepo) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteApplicationsForJob(ctx context.Context, jobID string) error {
	return r.DB.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.Application{}).Error
}

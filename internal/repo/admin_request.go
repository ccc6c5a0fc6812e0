package repo

import (
	"context"

	"github.com/Skotchmaster/job_portal/internal/models"
)

func (r *GormRepo) CreateAdminRequest(ctx context.Context, req *models.AdminRequest) error {
	ensureID(&req.ID)
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	return translate(r.DB.WithContext(ctx).Create(req).Error)
}

func (r *GormRepo) FindAdminRequestByID(ctx context.Context, id string) (*models.AdminRequest, error) {
	var req models.AdminRequest
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *GormRepo) AdminRequestExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.AdminRequest{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListAdminRequests(ctx context.Context) ([]models.AdminRequest, error) {
	var reqs []models.AdminRequest
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *GormRepo) UpdateAdminRequestStatus(ctx context.Context, id, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.AdminRequest{}).
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

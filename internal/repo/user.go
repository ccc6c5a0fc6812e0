package repo

import (
	"context"

	"github.com/Skotchmaster/job_portal/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Select("*").Omit("id", "created_at").Updates(u)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Where("role = ?", role).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

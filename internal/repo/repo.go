package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_portal/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type AdminRequestRepo interface {
	CreateAdminRequest(ctx context.Context, r *models.AdminRequest) error
	FindAdminRequestByID(ctx context.Context, id string) (*models.AdminRequest, error)
	AdminRequestExists(ctx context.Context, email string) (bool, error)
	ListAdminRequests(ctx context.Context) ([]models.AdminRequest, error)
	UpdateAdminRequestStatus(ctx context.Context, id, status string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	FindJobByID(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, offset, limit int) (int64, []models.Job, error)
	SaveJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id string) error
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	FindApplicationByID(ctx context.Context, id string) (*models.Application, error)
	ApplicationExists(ctx context.Context, jobID, applicantID string) (bool, error)
	ListApplicationsByPoster(ctx context.Context, email string) ([]models.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) error
	DeleteApplicationsForJob(ctx context.Context, jobID string) error
}

// Store is everything the services need from a backend.
type Store interface {
	UserRepo
	AdminRequestRepo
	JobRepo
	ApplicationRepo
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type GormRepo struct {
	DB *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close(context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

var (
	_ Store = (*GormRepo)(nil)
	_ Store = (*MongoRepo)(nil)
)

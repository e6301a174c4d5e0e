package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"gorm.io/gorm"
)

// WorkerRepository is the worker account data access interface.
type WorkerRepository interface {
	GetByEmail(email string) (*models.Worker, error)
	GetByID(id uint) (*models.Worker, error)
	GetByCode(code string) (*models.Worker, error)
	Create(worker *models.Worker) error
	Update(worker *models.Worker) error
	UpdateLastLogin(id uint, at time.Time) error
	BumpTokenVersion(id uint) error
	List(filter WorkerListFilter) ([]models.Worker, int64, error)
}

// GormWorkerRepository is the GORM implementation.
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a worker repository.
func NewWorkerRepository(db *gorm.DB) *GormWorkerRepository {
	return &GormWorkerRepository{db: db}
}

// GetByEmail fetches a worker by email.
func (r *GormWorkerRepository) GetByEmail(email string) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.Where("email = ?", email).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

// GetByID fetches a worker by ID.
func (r *GormWorkerRepository) GetByID(id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.First(&worker, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

// GetByCode fetches a worker by allocation code.
func (r *GormWorkerRepository) GetByCode(code string) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.Where("code = ?", code).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

// Create inserts a worker.
func (r *GormWorkerRepository) Create(worker *models.Worker) error {
	return r.db.Create(worker).Error
}

// Update saves a worker.
func (r *GormWorkerRepository) Update(worker *models.Worker) error {
	return r.db.Save(worker).Error
}

// UpdateLastLogin records the login timestamp.
func (r *GormWorkerRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Worker{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}

// BumpTokenVersion invalidates previously issued tokens.
func (r *GormWorkerRepository) BumpTokenVersion(id uint) error {
	return r.db.Model(&models.Worker{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}

// List queries workers with keyword and role filters.
func (r *GormWorkerRepository) List(filter WorkerListFilter) ([]models.Worker, int64, error) {
	query := r.db.Model(&models.Worker{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"name", "email", "code"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []models.Worker
	query = applyPagination(query.Order("id ASC"), filter.Page, filter.PageSize)
	if err := query.Find(&workers).Error; err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

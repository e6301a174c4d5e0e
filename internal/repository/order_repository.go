package repository

import (
	"errors"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	LatestOrderNumberByPrefix(workerID uint, prefix string) (string, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Update(order *models.Order) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts an order. The unique index on order_number surfaces
// concurrent allocation collisions as gorm.ErrDuplicatedKey.
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID fetches an order with its worker.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Worker").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber fetches an order by its allocated number.
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Worker").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// LatestOrderNumberByPrefix returns the most recently created order number
// the worker has under the given prefix, or empty when none exists yet.
//
// Recency follows insertion order, not numeric suffix order. Numbers of
// different widths (HS99 vs HS100) would not sort correctly as strings,
// and the allocator only needs the latest issued one to continue from.
func (r *GormOrderRepository) LatestOrderNumberByPrefix(workerID uint, prefix string) (string, error) {
	var order models.Order
	err := r.db.Select("order_number").
		Where("worker_id = ?", workerID).
		Where("order_number LIKE ?", prefix+"%").
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return order.OrderNumber, nil
}

// List queries orders with search and filter conditions, newest first.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if filter.WorkerID > 0 {
		query = query.Where("worker_id = ?", filter.WorkerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{
			"order_number",
			"sender_name",
			"sender_phone",
			"receiver_name",
			"receiver_phone",
		})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query.Preload("Worker").Order("created_at DESC, id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Update saves the full order row.
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateStatus updates only the status column.
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes the order row. History rows cascade via the foreign key;
// sqlite without foreign_keys pragma is covered by an explicit delete in
// the service transaction.
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

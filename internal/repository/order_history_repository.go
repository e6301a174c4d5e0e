package repository

import (
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"

	"gorm.io/gorm"
)

// OrderHistoryRepository is the audit trail data access interface.
// Entries are append-only: there is no update or single-row delete.
type OrderHistoryRepository interface {
	Append(entry *models.OrderHistory) error
	ListByOrder(filter OrderHistoryListFilter) ([]models.OrderHistory, int64, error)
	DeleteByOrder(orderID uint) error
	WithTx(tx *gorm.DB) *GormOrderHistoryRepository
}

// GormOrderHistoryRepository is the GORM implementation.
type GormOrderHistoryRepository struct {
	db *gorm.DB
}

// NewOrderHistoryRepository creates an order history repository.
func NewOrderHistoryRepository(db *gorm.DB) *GormOrderHistoryRepository {
	return &GormOrderHistoryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderHistoryRepository) WithTx(tx *gorm.DB) *GormOrderHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderHistoryRepository{db: tx}
}

// Append inserts an audit entry.
func (r *GormOrderHistoryRepository) Append(entry *models.OrderHistory) error {
	return r.db.Create(entry).Error
}

// ListByOrder returns the audit trail of one order, newest first.
func (r *GormOrderHistoryRepository) ListByOrder(filter OrderHistoryListFilter) ([]models.OrderHistory, int64, error) {
	query := r.db.Model(&models.OrderHistory{}).Where("order_id = ?", filter.OrderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.OrderHistory
	query = applyPagination(query.Order("created_at DESC, id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// DeleteByOrder removes all entries of one order. Used only when the order
// itself is hard deleted.
func (r *GormOrderHistoryRepository) DeleteByOrder(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.OrderHistory{}).Error
}

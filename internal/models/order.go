package models

import "time"

// Order is a single cargo shipment record.
//
// OrderNumber shares the letter prefix of the creating worker's code and its
// numeric suffix is unique and monotonically increasing within that prefix.
// Orders are never soft-deleted: the only delete is the executive hard delete,
// which cascades into the history ledger.
type Order struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	OrderNumber   string    `gorm:"uniqueIndex;not null" json:"order_number"`
	SenderName    string    `gorm:"not null" json:"sender_name"`
	SenderPhone   string    `gorm:"not null" json:"sender_phone"`
	ReceiverName  string    `gorm:"not null" json:"receiver_name"`
	ReceiverPhone string    `gorm:"not null" json:"receiver_phone"`
	CargoType     string    `gorm:"not null" json:"cargo_type"`
	Weight        *Weight   `gorm:"type:decimal(12,3)" json:"weight,omitempty"`
	Price         *Money    `gorm:"type:decimal(20,2)" json:"price,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Status        string    `gorm:"index;not null" json:"status"`
	WorkerID      uint      `gorm:"index;not null" json:"worker_id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Worker  *Worker        `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	History []OrderHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

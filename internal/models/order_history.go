package models

import "time"

// OrderHistory is an immutable audit entry for a single accepted mutation.
//
// WorkerName is a snapshot taken at write time so entries stay readable after
// a worker record changes. Rows are only ever appended; the sole removal path
// is the cascade when the parent order is hard-deleted.
type OrderHistory struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	WorkerID   uint      `gorm:"index;not null" json:"worker_id"`
	WorkerName string    `gorm:"type:varchar(120);not null;default:''" json:"worker_name"`
	Action     string    `gorm:"type:varchar(40);index;not null" json:"action"`
	OldStatus  string    `gorm:"type:varchar(40)" json:"old_status,omitempty"`
	NewStatus  string    `gorm:"type:varchar(40)" json:"new_status,omitempty"`
	Changes    JSON      `gorm:"type:json" json:"changes,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (OrderHistory) TableName() string {
	return "order_history"
}

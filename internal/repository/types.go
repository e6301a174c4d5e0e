package repository

import "time"

// OrderListFilter filters the order list query.
type OrderListFilter struct {
	Page        int
	PageSize    int
	WorkerID    uint
	Status      string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OrderHistoryListFilter filters the audit trail query.
type OrderHistoryListFilter struct {
	Page     int
	PageSize int
	OrderID  uint
}

// WorkerListFilter filters the worker list query.
type WorkerListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
}

package models

import "time"

// Worker is a registered field operator or executive.
type Worker struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Name               string     `gorm:"not null" json:"name"`
	Code               string     `gorm:"uniqueIndex;not null" json:"code"` // letter prefix + digit counter, e.g. HS12
	Role               string     `gorm:"index;not null;default:'worker'" json:"role"`
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (Worker) TableName() string {
	return "workers"
}

package models

import (
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/constants"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultExecutive creates the first executive account when the workers
// table is empty, so a fresh install can log in and register field workers.
func InitDefaultExecutive(email, password string) error {
	var count int64
	DB.Model(&Worker{}).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "executive@gereltjin.local"
	}
	if password == "" {
		password = "executive123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	executive := Worker{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Name:         "Executive",
		Code:         "EX01",
		Role:         constants.RoleExecutive,
	}
	if err := DB.Create(&executive).Error; err != nil {
		return err
	}

	if password == "executive123" {
		logger.Warnw("default_executive_created_with_default_password", "email", executive.Email)
		logger.Warnw("default_executive_password_change_required", "email", executive.Email)
	} else {
		logger.Warnw("default_executive_created", "email", executive.Email, "password_hidden", true)
	}
	return nil
}

package models

import (
	"errors"
	"strings"

	"github.com/newsportal/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureBuiltinRoles creates missing builtin roles and refreshes their capabilities.
func EnsureBuiltinRoles(db *gorm.DB) error {
	for _, seed := range BuiltinRoles() {
		var role Role
		err := db.Where("name = ?", seed.Name).First(&role).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			role = seed
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			logger.Infow("builtin_role_created", "role", role.Name)
		case err != nil:
			return err
		default:
			if err := db.Model(&role).Updates(map[string]interface{}{
				"capabilities": seed.Capabilities,
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// InitDefaultAdmin creates the first back-office account.
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)

	// an existing "admin" account always stays super
	if count > 0 {
		if err := DB.Model(&Admin{}).Where("username = ?", "admin").Update("is_super", true).Error; err != nil {
			logger.Warnw("ensure_default_admin_super_failed", "error", err)
		}
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      strings.EqualFold(strings.TrimSpace(username), "admin"),
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}

package models

import (
	"strings"
	"time"

	"github.com/newsportal/internal/constants"

	"gorm.io/gorm"
)

// User is a portal account. Roles holds the role names granted to it.
// Deletion is a hard delete so the post and subscription ON DELETE rules apply.
type User struct {
	ID                 uint        `gorm:"primarykey" json:"id"`
	Username           string      `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName          string      `gorm:"type:varchar(150);default:''" json:"first_name"`
	LastName           string      `gorm:"type:varchar(150);default:''" json:"last_name"`
	Email              string      `gorm:"type:varchar(254);index;default:''" json:"email"`
	PasswordHash       string      `gorm:"not null;default:''" json:"-"`
	Roles              StringArray `gorm:"type:json" json:"roles"`
	Status             string      `gorm:"default:'active'" json:"status"`
	TokenVersion       uint64      `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time  `gorm:"index" json:"-"`
	YandexID           *string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	LastLoginAt        *time.Time  `json:"last_login_at"`
	CreatedAt          time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// TableName users
func (User) TableName() string {
	return "users"
}

// BeforeCreate puts every new user into the common role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.AddRoles(constants.RoleCommon)
	if strings.TrimSpace(u.Status) == "" {
		u.Status = constants.UserStatusActive
	}
	return nil
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	return u.Roles.Contains(role)
}

// AddRoles appends roles not held yet and reports whether anything changed.
func (u *User) AddRoles(roles ...string) bool {
	changed := false
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" || u.Roles.Contains(role) {
			continue
		}
		u.Roles = append(u.Roles, role)
		changed = true
	}
	return changed
}

// DisplayName is "First Last", falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return u.Username
}

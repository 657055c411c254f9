package models

import (
	"time"

	"github.com/newsportal/internal/constants"
)

// Role is an entry of the role catalog.
type Role struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	Name         string      `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Description  string      `gorm:"type:varchar(255);default:''" json:"description"`
	Capabilities StringArray `gorm:"type:json" json:"capabilities"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName roles
func (Role) TableName() string {
	return "roles"
}

// BuiltinRoles returns the roles every installation needs.
func BuiltinRoles() []Role {
	return []Role{
		{
			Name:         constants.RoleCommon,
			Description:  "Registered readers",
			Capabilities: StringArray{constants.CapabilityPostView},
		},
		{
			Name:        constants.RoleAuthors,
			Description: "Authors may publish and manage their own posts",
			Capabilities: StringArray{
				constants.CapabilityPostView,
				constants.CapabilityPostCreate,
				constants.CapabilityPostChange,
				constants.CapabilityPostDelete,
			},
		},
	}
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups posts and is the unit of subscription.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName categories
func (Category) TableName() string {
	return "categories"
}

// Subscription records that a user wants mail about a category.
type Subscription struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_subscription_user_category" json:"user_id"`
	CategoryID   uint      `gorm:"not null;uniqueIndex:idx_subscription_user_category;index" json:"category_id"`
	SubscribedAt time.Time `gorm:"not null" json:"subscribed_at"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Category     *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

// TableName subscriptions
func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate stamps the subscription time.
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now()
	}
	return nil
}

package repository

import (
	"github.com/newsportal/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository subscription data access.
type SubscriptionRepository interface {
	Exists(userID, categoryID uint) (bool, error)
	Create(subscription *models.Subscription) (bool, error)
	Delete(userID, categoryID uint) (bool, error)
	ListByUser(userID uint) ([]models.Subscription, error)
	List(filter SubscriptionListFilter) ([]models.Subscription, int64, error)
}

// GormSubscriptionRepository GORM implementation.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a subscription repository.
func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Exists reports whether the pair is subscribed.
func (r *GormSubscriptionRepository) Exists(userID, categoryID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the subscription; created is false when it already existed.
func (r *GormSubscriptionRepository) Create(subscription *models.Subscription) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Subscription
		result := tx.Where("user_id = ? AND category_id = ?", subscription.UserID, subscription.CategoryID).
			Limit(1).
			Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			*subscription = existing
			return nil
		}
		if err := tx.Omit("User", "Category").Create(subscription).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// Delete removes the pair; deleted is false when nothing matched.
func (r *GormSubscriptionRepository) Delete(userID, categoryID uint) (bool, error) {
	result := r.db.Where("user_id = ? AND category_id = ?", userID, categoryID).Delete(&models.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser returns the user's subscriptions with categories.
func (r *GormSubscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	subscriptions := make([]models.Subscription, 0)
	if err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("subscribed_at DESC").
		Order("id DESC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// List pages through all subscriptions.
func (r *GormSubscriptionRepository) List(filter SubscriptionListFilter) ([]models.Subscription, int64, error) {
	query := r.db.Model(&models.Subscription{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	subscriptions := make([]models.Subscription, 0)
	if err := query.Preload("User").Preload("Category").Order("id DESC").Find(&subscriptions).Error; err != nil {
		return nil, 0, err
	}
	return subscriptions, total, nil
}

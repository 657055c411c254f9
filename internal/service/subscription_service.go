package service

import (
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

// SubscriptionService subscribes users to categories.
type SubscriptionService struct {
	repo         repository.SubscriptionRepository
	categoryRepo repository.CategoryRepository
}

// NewSubscriptionService creates the service.
func NewSubscriptionService(repo repository.SubscriptionRepository, categoryRepo repository.CategoryRepository) *SubscriptionService {
	return &SubscriptionService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// Subscribe is idempotent; created is false when the subscription already existed.
func (s *SubscriptionService) Subscribe(userID, categoryID uint) (bool, error) {
	if err := s.ensureCategory(categoryID); err != nil {
		return false, err
	}
	return s.repo.Create(&models.Subscription{
		UserID:     userID,
		CategoryID: categoryID,
	})
}

// Unsubscribe reports whether a subscription was removed.
func (s *SubscriptionService) Unsubscribe(userID, categoryID uint) (bool, error) {
	if err := s.ensureCategory(categoryID); err != nil {
		return false, err
	}
	return s.repo.Delete(userID, categoryID)
}

// ListMine returns the user's subscriptions with their categories.
func (s *SubscriptionService) ListMine(userID uint) ([]models.Subscription, error) {
	return s.repo.ListByUser(userID)
}

// List pages every subscription for the back office.
func (s *SubscriptionService) List(filter repository.SubscriptionListFilter) ([]models.Subscription, int64, error) {
	return s.repo.List(filter)
}

func (s *SubscriptionService) ensureCategory(categoryID uint) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

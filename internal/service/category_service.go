package service

import (
	"strings"
	"unicode/utf8"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

// CategoryService manages post categories.
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates the service.
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput is the admin category form.
type CategoryInput struct {
	Name string
}

// List returns every category ordered by name.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Get returns ErrCategoryNotFound for a missing id.
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create adds a category with a unique name.
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name, err := normalizeCategoryName(input.Name)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByName(name, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category := models.Category{Name: name}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update renames a category.
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	name, err := normalizeCategoryName(input.Name)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountByName(name, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryNameExists
	}

	category.Name = name
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category with its post links and subscriptions. Posts stay.
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func normalizeCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrCategoryNameRequired
	}
	if utf8.RuneCountInString(name) > constants.CategoryNameMaxLength {
		return "", newValidationError(ErrCategoryNameRequired, "error.category_name_too_long", constants.CategoryNameMaxLength)
	}
	return name, nil
}

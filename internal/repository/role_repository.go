package repository

import (
	"errors"

	"github.com/newsportal/internal/models"

	"gorm.io/gorm"
)

// RoleRepository role catalog access.
type RoleRepository interface {
	GetByName(name string) (*models.Role, error)
	ListByNames(names []string) ([]models.Role, error)
	List() ([]models.Role, error)
	Create(role *models.Role) error
	ListMembers(name string) ([]models.User, error)
	WithTx(tx *gorm.DB) RoleRepository
}

// GormRoleRepository GORM implementation.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a role repository.
func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) WithTx(tx *gorm.DB) RoleRepository {
	if tx == nil {
		return r
	}
	return &GormRoleRepository{db: tx}
}

func (r *GormRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) ListByNames(names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return []models.Role{}, nil
	}
	roles := make([]models.Role, 0, len(names))
	if err := r.db.Where("name IN ?", names).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRoleRepository) List() ([]models.Role, error) {
	roles := make([]models.Role, 0)
	if err := r.db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// ListMembers returns users holding the role.
func (r *GormRoleRepository) ListMembers(name string) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.Model(&models.User{}).
		Where(jsonArrayContainsCondition(r.db, "users.roles"), jsonArrayContainsArg(r.db, name)).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

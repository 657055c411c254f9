package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"

	"gorm.io/gorm"
)

// UserRepository user data access.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByYandexID(yandexID string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateProfile(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	CountByUsername(username string, excludeID uint) (int64, error)
	CountByEmail(email string, excludeID uint) (int64, error)
	AddRoles(userID uint, roles []string) (*models.User, error)
	SetRoles(userID uint, roles []string) (*models.User, error)
	BumpTokenVersion(userID uint) error
	UpdateStatus(userID uint, status string) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM implementation.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormUserRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *GormUserRepository) first(query *gorm.DB) (*models.User, error) {
	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(r.db.Where("id = ?", id))
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first(r.db.Where("username = ?", username))
}

// GetByEmail matches case-insensitively; empty email never matches.
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	return r.first(r.db.Where("LOWER(email) = ?", email).Order("id ASC"))
}

func (r *GormUserRepository) GetByYandexID(yandexID string) (*models.User, error) {
	if strings.TrimSpace(yandexID) == "" {
		return nil, nil
	}
	return r.first(r.db.Where("yandex_id = ?", yandexID))
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateProfile writes the profile form fields only.
func (r *GormUserRepository) UpdateProfile(user *models.User) error {
	return r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"updated_at": time.Now(),
	}).Error
}

// List pages through users.
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := containsArg(keyword)
		query = query.Where(
			containsCondition(r.db, "username")+" OR "+containsCondition(r.db, "email"),
			like, like,
		)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where(jsonArrayContainsCondition(r.db, "users.roles"), jsonArrayContainsArg(r.db, role))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	users := make([]models.User, 0)
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *GormUserRepository) CountByUsername(username string, excludeID uint) (int64, error) {
	return r.countWhere("username = ?", username, excludeID)
}

func (r *GormUserRepository) CountByEmail(email string, excludeID uint) (int64, error) {
	return r.countWhere("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

func (r *GormUserRepository) countWhere(condition string, value interface{}, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where(condition, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddRoles grants roles atomically. Returns nil when the user is missing.
func (r *GormUserRepository) AddRoles(userID uint, roles []string) (*models.User, error) {
	return r.mutateRoles(userID, func(user *models.User) {
		user.AddRoles(roles...)
	})
}

// SetRoles replaces the role set. common is always kept.
func (r *GormUserRepository) SetRoles(userID uint, roles []string) (*models.User, error) {
	return r.mutateRoles(userID, func(user *models.User) {
		user.Roles = models.StringArray{}
		user.AddRoles(constants.RoleCommon)
		user.AddRoles(roles...)
	})
}

func (r *GormUserRepository) mutateRoles(userID uint, mutate func(user *models.User)) (*models.User, error) {
	var result *models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		user, err := r.WithTx(tx).GetByID(userID)
		if err != nil || user == nil {
			return err
		}
		mutate(user)
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("roles", user.Roles).Error; err != nil {
			return err
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BumpTokenVersion revokes every token issued so far.
func (r *GormUserRepository) BumpTokenVersion(userID uint) error {
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"token_version":        gorm.Expr("token_version + 1"),
		"token_invalid_before": now,
		"updated_at":           now,
	}).Error
}

// UpdateStatus changes the account status; disabling revokes tokens.
func (r *GormUserRepository) UpdateStatus(userID uint, status string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusDisabled {
		updates["token_invalid_before"] = now
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

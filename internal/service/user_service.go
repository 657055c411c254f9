package service

import (
	"context"
	"strings"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

// ProfileInput is the profile form. Every field is submitted on each edit.
type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// UserService owns profile edits and role grants.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates the service.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// GetProfile returns the requester's own record.
func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile edits the requester's own record. Other users are never touched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if len([]rune(firstName)) > usernameMaxLength || len([]rune(lastName)) > usernameMaxLength {
		return nil, newValidationError(ErrUsernameInvalid, "error.name_too_long", usernameMaxLength)
	}

	if username != user.Username {
		count, err := s.userRepo.CountByUsername(username, user.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameExists
		}
	}
	if email != "" && !strings.EqualFold(email, user.Email) {
		count, err := s.userRepo.CountByEmail(email, user.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
	}

	user.Username = username
	user.FirstName = firstName
	user.LastName = lastName
	user.Email = email
	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return user, nil
}

// BecomeAuthor grants authors and common. It is idempotent and changes nothing
// unless both roles exist in the role catalog.
func (s *UserService) BecomeAuthor(ctx context.Context, userID uint) (*models.User, error) {
	required := []string{constants.RoleAuthors, constants.RoleCommon}
	if err := s.ensureRolesExist(required); err != nil {
		return nil, err
	}
	user, err := s.userRepo.AddRoles(userID, required)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	_ = cache.DelUserAuthState(ctx, userID)
	return user, nil
}

// AddRole grants a catalog role to the user named username.
func (s *UserService) AddRole(ctx context.Context, username, role string) (*models.User, error) {
	role = strings.TrimSpace(role)
	if err := s.ensureRolesExist([]string{role}); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	updated, err := s.userRepo.AddRoles(user.ID, []string{role})
	if err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return updated, nil
}

// SetRoles replaces the user's roles. common is always kept.
func (s *UserService) SetRoles(ctx context.Context, userID uint, roles []string) (*models.User, error) {
	cleaned := make([]string, 0, len(roles))
	for _, role := range roles {
		if role = strings.TrimSpace(role); role != "" {
			cleaned = append(cleaned, role)
		}
	}
	if err := s.ensureRolesExist(cleaned); err != nil {
		return nil, err
	}
	user, err := s.userRepo.SetRoles(userID, cleaned)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	_ = cache.DelUserAuthState(ctx, userID)
	return user, nil
}

// ListUsers pages users for the back office.
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// SetStatus enables or disables an account.
func (s *UserService) SetStatus(ctx context.Context, userID uint, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return ErrNotFound
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateStatus(user.ID, status); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return nil
}

// ListRoles returns the role catalog.
func (s *UserService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}

// CreateRole adds a catalog role. An existing role is returned unchanged.
func (s *UserService) CreateRole(name, description string, capabilities []string) (*models.Role, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrRoleNotFound
	}
	for _, capability := range capabilities {
		if !authz.IsKnownAction(capability) {
			return nil, false, ErrInvalidCapability
		}
	}
	existing, err := s.roleRepo.GetByName(name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	role := &models.Role{
		Name:         name,
		Description:  strings.TrimSpace(description),
		Capabilities: models.StringArray(capabilities),
	}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, false, err
	}
	return role, true, nil
}

// RoleInfo returns a role with its members.
func (s *UserService) RoleInfo(name string) (*models.Role, []models.User, error) {
	role, err := s.roleRepo.GetByName(strings.TrimSpace(name))
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, ErrRoleNotFound
	}
	members, err := s.roleRepo.ListMembers(role.Name)
	if err != nil {
		return nil, nil, err
	}
	return role, members, nil
}

func (s *UserService) ensureRolesExist(names []string) error {
	if len(names) == 0 {
		return nil
	}
	roles, err := s.roleRepo.ListByNames(names)
	if err != nil {
		return err
	}
	found := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		found[role.Name] = struct{}{}
	}
	for _, name := range names {
		if _, ok := found[name]; !ok {
			return ErrRoleNotFound
		}
	}
	return nil
}

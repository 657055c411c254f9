package service

import (
	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

// PrincipalResolver builds authz principals from the role catalog.
type PrincipalResolver struct {
	roleRepo repository.RoleRepository
}

// NewPrincipalResolver creates the resolver.
func NewPrincipalResolver(roleRepo repository.RoleRepository) *PrincipalResolver {
	return &PrincipalResolver{roleRepo: roleRepo}
}

// Resolve loads the capabilities of roles. userID 0 yields the anonymous principal.
func (r *PrincipalResolver) Resolve(userID uint, roles []string) (authz.Principal, error) {
	if userID == 0 {
		return authz.Principal{}, nil
	}
	principal := authz.Principal{
		UserID:       userID,
		Roles:        append([]string(nil), roles...),
		Capabilities: authz.CapabilitySet{},
	}
	if r == nil || r.roleRepo == nil || len(roles) == 0 {
		return principal, nil
	}
	catalogRoles, err := r.roleRepo.ListByNames(roles)
	if err != nil {
		return principal, err
	}
	catalog := make(map[string][]string, len(catalogRoles))
	for _, role := range catalogRoles {
		catalog[role.Name] = role.Capabilities
	}
	principal.Capabilities = authz.CapabilitiesFor(roles, catalog)
	return principal, nil
}

// ResolveUser is Resolve for a loaded user.
func (r *PrincipalResolver) ResolveUser(user *models.User) (authz.Principal, error) {
	if user == nil {
		return authz.Principal{}, nil
	}
	return r.Resolve(user.ID, user.Roles)
}

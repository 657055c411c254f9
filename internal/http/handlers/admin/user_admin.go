package admin

import (
	"errors"
	"strings"

	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/repository"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

// SetUserRolesRequest replaces a user's roles.
type SetUserRolesRequest struct {
	Roles []string `json:"roles"`
}

// UpdateUserStatusRequest enables or disables an account.
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateRoleRequest adds a role to the portal catalog.
type CreateRoleRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// GetAdminUsers pages portal users, filtered by keyword, role and status.
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := queryPagination(c)
	users, total, err := h.UserService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetAdminUser returns one portal user.
func (h *Handler) GetAdminUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	user, err := h.UserService.GetProfile(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, user)
}

// SetUserRoles replaces a user's portal roles. common is always kept.
func (h *Handler) SetUserRoles(c *gin.Context) {
	id, ok := parseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	var req SetUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.SetRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			respondError(c, response.CodeBadRequest, "error.role_not_found", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.role_update_failed", err)
		}
		return
	}
	requestLog(c).Infow("admin_user_roles_updated",
		"admin_id", currentAdminID(c),
		"user_id", user.ID,
		"roles", user.Roles,
	)
	response.Success(c, user)
}

// UpdateUserStatus enables or disables an account. Disabling revokes its tokens.
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.UserService.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_update_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"id": id, "status": strings.ToLower(strings.TrimSpace(req.Status))})
}

// ListUserRoles returns the portal role catalog.
func (h *Handler) ListUserRoles(c *gin.Context) {
	roles, err := h.UserService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, roles)
}

// GetUserRole returns a catalog role with its members.
func (h *Handler) GetUserRole(c *gin.Context) {
	role, members, err := h.UserService.RoleInfo(decodeRoleParam(c.Param("name")))
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			respondError(c, response.CodeNotFound, "error.role_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"role": role, "members": members})
}

// CreateUserRole adds a portal role. An existing role is returned as is.
func (h *Handler) CreateUserRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, created, err := h.UserService.CreateRole(req.Name, req.Description, req.Capabilities)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidCapability) {
			respondError(c, response.CodeBadRequest, "error.role_capability_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.role_update_failed", err)
		return
	}
	response.Success(c, gin.H{"role": role, "created": created})
}

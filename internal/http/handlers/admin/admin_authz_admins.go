package admin

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/models"

	"github.com/gin-gonic/gin"
)

const protectedSuperAdminUsername = "admin"

var errAdminUsernameInvalid = errors.New("admin username must be 3-64 characters without spaces")

type adminAccountCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsSuper  *bool  `json:"is_super"`
}

type adminAccountUpdateRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	IsSuper  *bool   `json:"is_super"`
}

type adminAccountItem struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	IsSuper     bool   `json:"is_super"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

func presentAdminAccount(admin *models.Admin) adminAccountItem {
	item := adminAccountItem{ID: admin.ID, Username: admin.Username, IsSuper: admin.IsSuper}
	if admin.LastLoginAt != nil {
		item.LastLoginAt = admin.LastLoginAt.Format(time.RFC3339)
	}
	return item
}

// CreateAuthzAdmin adds a back-office account.
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req adminAccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	username, err := normalizeAdminUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.admin_username_invalid", err)
		return
	}
	existing, err := h.AdminRepo.GetByUsername(username)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "error.admin_username_exists", nil)
		return
	}

	password := strings.TrimSpace(req.Password)
	if err := h.AuthService.ValidatePassword(password); err != nil {
		respondValidationError(c, err, "error.password_weak")
		return
	}
	hash, err := h.AuthService.HashPassword(password)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      (req.IsSuper != nil && *req.IsSuper) || strings.EqualFold(username, protectedSuperAdminUsername),
	}
	if err := h.AdminRepo.Create(admin); err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

	requestLog(c).Infow("admin_account_created",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", admin.ID,
		"is_super", admin.IsSuper,
	)
	response.Success(c, presentAdminAccount(admin))
}

// UpdateAuthzAdmin renames an account, toggles super or resets its password.
// A password reset revokes the tokens issued before it.
func (h *Handler) UpdateAuthzAdmin(c *gin.Context) {
	adminID, ok := parseUintParam(c, "id", "error.admin_id_invalid")
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return
	}

	var req adminAccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	updated := make([]string, 0, 3)
	if req.Username != nil {
		username, err := normalizeAdminUsername(*req.Username)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.admin_username_invalid", err)
			return
		}
		if username != admin.Username {
			existing, err := h.AdminRepo.GetByUsername(username)
			if err != nil {
				respondError(c, response.CodeInternal, "error.admin_save_failed", err)
				return
			}
			if existing != nil && existing.ID != admin.ID {
				respondError(c, response.CodeConflict, "error.admin_username_exists", nil)
				return
			}
			admin.Username = username
			updated = append(updated, "username")
		}
	}
	if req.IsSuper != nil {
		next := *req.IsSuper || strings.EqualFold(admin.Username, protectedSuperAdminUsername)
		if next != admin.IsSuper {
			admin.IsSuper = next
			updated = append(updated, "is_super")
		}
	}
	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if err := h.AuthService.ValidatePassword(password); err != nil {
			respondValidationError(c, err, "error.password_weak")
			return
		}
		hash, err := h.AuthService.HashPassword(password)
		if err != nil {
			respondError(c, response.CodeInternal, "error.admin_save_failed", err)
			return
		}
		now := time.Now()
		admin.PasswordHash = hash
		admin.TokenVersion++
		admin.TokenInvalidBefore = &now
		updated = append(updated, "password")
	}
	if len(updated) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.AdminRepo.Update(admin); err != nil {
		respondError(c, response.CodeInternal, "error.admin_save_failed", err)
		return
	}
	_ = cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin))

	sort.Strings(updated)
	requestLog(c).Infow("admin_account_updated",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", admin.ID,
		"updated_fields", updated,
	)
	response.Success(c, presentAdminAccount(admin))
}

// DeleteAuthzAdmin removes an account. The built-in admin, the caller and
// the last remaining account cannot be removed.
func (h *Handler) DeleteAuthzAdmin(c *gin.Context) {
	adminID, ok := parseUintParam(c, "id", "error.admin_id_invalid")
	if !ok {
		return
	}
	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return
	}
	if currentAdminID(c) == adminID {
		respondError(c, response.CodeBadRequest, "error.admin_delete_self", nil)
		return
	}
	if strings.EqualFold(admin.Username, protectedSuperAdminUsername) {
		respondError(c, response.CodeBadRequest, "error.admin_delete_protected", nil)
		return
	}
	count, err := h.AdminRepo.Count()
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	if count <= 1 {
		respondError(c, response.CodeBadRequest, "error.admin_delete_protected", nil)
		return
	}

	if err := h.AuthzService.SetAdminRoles(adminID, []string{}); err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	if err := h.AdminRepo.Delete(adminID); err != nil {
		respondError(c, response.CodeInternal, "error.admin_delete_failed", err)
		return
	}
	_ = cache.DelAdminAuthState(c.Request.Context(), adminID)

	requestLog(c).Infow("admin_account_deleted",
		"operator_admin_id", currentAdminID(c),
		"target_admin_id", adminID,
	)
	response.Success(c, nil)
}

func normalizeAdminUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t\r\n") {
		return "", errAdminUsernameInvalid
	}
	length := len([]rune(trimmed))
	if length < 3 || length > 64 {
		return "", errAdminUsernameInvalid
	}
	return trimmed, nil
}

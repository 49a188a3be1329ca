package handlers

import (
	"errors"

	"identity-api/internal/config"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

type PasswordHandler struct {
	passwordService   *services.PasswordService
	permissionService *services.PermissionService
}

func NewPasswordHandler(cfg *config.Config, permissionService *services.PermissionService) *PasswordHandler {
	return &PasswordHandler{
		passwordService:   services.NewPasswordService(cfg),
		permissionService: permissionService,
	}
}

type SetPasswordRequest struct {
	UserID               uint   `json:"user_id" binding:"required"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword         string `json:"current_password" binding:"required"`
	NewPassword             string `json:"new_password" binding:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" binding:"required"`
}

// SetPassword sets the initial password on an account that has none.
// Subject to the permission hierarchy for the target user.
func (h *PasswordHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	actor := currentUser(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	if _, err := h.permissionService.Authorize(actor, req.UserID, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
		default:
			c.JSON(500, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := h.passwordService.SetPassword(req.UserID, req.Password, req.PasswordConfirmation); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Password set successfully"})
}

// UpdatePassword changes the authenticated user's own password.
func (h *PasswordHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	actor := currentUser(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	err := h.passwordService.UpdatePassword(actor.ID, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Password updated successfully"})
}

package handlers

import (
	"errors"
	"strconv"

	"identity-api/internal/config"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService       *services.UserService
	permissionService *services.PermissionService
}

func NewUserHandler(cfg *config.Config, permissionService *services.PermissionService) *UserHandler {
	return &UserHandler{
		userService:       services.NewUserService(cfg),
		permissionService: permissionService,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type UpdateUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GetUsers returns one page of users; totals go out in response headers.
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.userService.GetUsers(page, pageSize)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get users", "details": err.Error()})
		return
	}

	setPaginationHeaders(c, total, page, pageSize)
	c.JSON(200, gin.H{"users": users})
}

// GetUser returns a specific user, subject to the permission hierarchy.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	target, err := h.authorize(c, id)
	if err != nil {
		return
	}

	c.JSON(200, target)
}

// CreateUser creates a new account; the password is set separately.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(&services.CreateUserData{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, user)
}

// UpdateUser updates profile fields, subject to the permission hierarchy.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if _, err := h.authorize(c, id); err != nil {
		return
	}

	user, err := h.userService.UpdateUser(id, &services.UpdateUserData{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, user)
}

// DeleteUser deletes a user account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "User deleted successfully"})
}

// Activate enables login on the account.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables login on the account.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.authorize(c, id); err != nil {
		return
	}

	user, err := h.userService.SetActive(id, active)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, user)
}

// GetRoles returns all roles.
func (h *UserHandler) GetRoles(c *gin.Context) {
	roles, err := h.userService.GetRoles()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get roles", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"roles": roles})
}

// AssignRole assigns a role to a user. SuperAdmin may assign any role;
// Admin may only assign the User role.
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	actor := currentUser(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	if !actor.HasRole(models.RoleSuperAdmin) && req.Role != models.RoleUser {
		c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
		return
	}

	if _, err := h.authorize(c, id); err != nil {
		return
	}

	user, err := h.userService.AssignRole(id, req.Role)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, user)
}

// RemoveRole removes a role from a user.
func (h *UserHandler) RemoveRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.authorize(c, id); err != nil {
		return
	}

	user, err := h.userService.RemoveRole(id, c.Param("role"))
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, user)
}

// authorize runs the permission evaluator for the :id target and writes
// the HTTP error response on failure.
func (h *UserHandler) authorize(c *gin.Context, targetID uint) (*models.User, error) {
	actor := currentUser(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return nil, services.ErrForbidden
	}

	target, err := h.permissionService.Authorize(actor, targetID, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
		default:
			c.JSON(500, gin.H{"error": "Internal server error"})
		}
		return nil, err
	}

	return target, nil
}

func currentUser(c *gin.Context) *models.User {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	return user.(*models.User)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}

func setPaginationHeaders(c *gin.Context, total int64, page, pageSize int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(page))
	c.Header("X-Page-Size", strconv.Itoa(pageSize))
}

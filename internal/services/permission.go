package services

import (
	"errors"
	"fmt"

	"identity-api/internal/models"

	"gorm.io/gorm"
)

var ErrForbidden = errors.New("insufficient permissions")

// PermissionService evaluates cross-user access against the role hierarchy.
type PermissionService struct {
	auditService *AuditService
}

func NewPermissionService(auditService *AuditService) *PermissionService {
	return &PermissionService{auditService: auditService}
}

// CanAccess applies the hierarchy rules to an already-loaded target:
// an actor with no role is denied outright, self-access is allowed,
// SuperAdmin may access anyone, Admin may access anyone below Admin.
func (s *PermissionService) CanAccess(actor *models.User, target *models.User) bool {
	if len(actor.Roles) == 0 {
		return false
	}
	if actor.ID == target.ID {
		return true
	}
	if actor.HasRole(models.RoleSuperAdmin) {
		return true
	}
	if actor.HasRole(models.RoleAdmin) {
		highest := target.HighestRole()
		return highest != models.RoleAdmin && highest != models.RoleSuperAdmin
	}
	return false
}

// Authorize fetches the target and evaluates access. A denial writes an
// authorization_breach audit record and returns ErrForbidden.
func (s *PermissionService) Authorize(actor *models.User, targetID uint, ipAddress, userAgent string) (*models.User, error) {
	var target models.User
	if err := models.DB.Preload("Roles").First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.CanAccess(actor, &target) {
		s.auditService.Log(actor.ID, models.AuditActionBreach,
			fmt.Sprintf("user %q (id %d) denied access to user id %d", actor.Username, actor.ID, targetID),
			ipAddress, userAgent)
		return nil, ErrForbidden
	}

	return &target, nil
}

package services

import (
	"testing"

	"identity-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionCanAccess(t *testing.T) {
	cfg := setupTestDB(t)

	superAdmin := newUser(t, cfg, "root", models.RoleSuperAdmin)
	admin := newUser(t, cfg, "admin", models.RoleAdmin)
	otherAdmin := newUser(t, cfg, "admin2", models.RoleAdmin)
	regular := newUser(t, cfg, "alice", models.RoleUser)
	otherRegular := newUser(t, cfg, "bob", models.RoleUser)
	roleless := newUser(t, cfg, "ghost")

	svc := NewPermissionService(NewAuditService())

	tests := []struct {
		name   string
		actor  *models.User
		target *models.User
		want   bool
	}{
		{"self access with a role", regular, regular, true},
		{"admin self access", admin, admin, true},
		{"superadmin self access", superAdmin, superAdmin, true},
		{"roleless denied own id", roleless, roleless, false},
		{"roleless denied others", roleless, regular, false},
		{"user denied other user", regular, otherRegular, false},
		{"user denied admin", regular, admin, false},
		{"admin allowed user", admin, regular, true},
		{"admin allowed roleless target", admin, roleless, true},
		{"admin denied other admin", admin, otherAdmin, false},
		{"admin denied superadmin", admin, superAdmin, false},
		{"superadmin allowed user", superAdmin, regular, true},
		{"superadmin allowed admin", superAdmin, admin, true},
		{"superadmin allowed roleless", superAdmin, roleless, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CanAccess(tt.actor, tt.target))
		})
	}
}

func TestPermissionAuthorize(t *testing.T) {
	cfg := setupTestDB(t)

	admin := newUser(t, cfg, "admin", models.RoleAdmin)
	otherAdmin := newUser(t, cfg, "admin2", models.RoleAdmin)
	regular := newUser(t, cfg, "alice", models.RoleUser)

	svc := NewPermissionService(NewAuditService())

	t.Run("allowed access returns the target with roles", func(t *testing.T) {
		target, err := svc.Authorize(admin, regular.ID, "127.0.0.1", "test")
		require.NoError(t, err)
		assert.Equal(t, regular.ID, target.ID)
		assert.True(t, target.HasRole(models.RoleUser))
	})

	t.Run("denied access returns ErrForbidden and writes a breach record", func(t *testing.T) {
		_, err := svc.Authorize(admin, otherAdmin.ID, "10.0.0.9", "test-agent")
		assert.ErrorIs(t, err, ErrForbidden)

		var entry models.AuditLog
		require.NoError(t, models.DB.Where("action = ?", models.AuditActionBreach).First(&entry).Error)
		assert.Equal(t, admin.ID, entry.UserID)
		assert.Equal(t, "10.0.0.9", entry.IPAddress)
		assert.NotEmpty(t, entry.UUID)
	})

	t.Run("missing target returns ErrUserNotFound without audit", func(t *testing.T) {
		var before int64
		models.DB.Model(&models.AuditLog{}).Count(&before)

		_, err := svc.Authorize(admin, 99999, "127.0.0.1", "test")
		assert.ErrorIs(t, err, ErrUserNotFound)

		var after int64
		models.DB.Model(&models.AuditLog{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("target with multiple roles is judged by highest", func(t *testing.T) {
		mixed := newUser(t, cfg, "mixed", models.RoleUser, models.RoleAdmin)

		_, err := svc.Authorize(admin, mixed.ID, "127.0.0.1", "test")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

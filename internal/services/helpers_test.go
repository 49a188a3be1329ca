package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"identity-api/internal/config"
	"identity-api/internal/models"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *config.Config {
	testDBPath := fmt.Sprintf("%s/identity_services_test_%d.db", os.TempDir(), time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		Security: config.SecurityConfig{
			BcryptCost:          4,
			PasswordHistorySize: 5,
		},
		DefaultUser: config.DefaultUserConfig{
			Username: "superadmin",
			Password: "bootstrap12345",
			Email:    "superadmin@example.com",
		},
	}

	require.NoError(t, models.InitDB(cfg))

	t.Cleanup(func() {
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err == nil {
				sqlDB.Close()
			}
			os.Remove(testDBPath)
		}
		models.DB = nil
	})

	return cfg
}

func newUser(t *testing.T, cfg *config.Config, username string, roleNames ...string) *models.User {
	var roles []models.Role
	for _, name := range roleNames {
		var role models.Role
		require.NoError(t, models.DB.Where("name = ?", name).First(&role).Error)
		roles = append(roles, role)
	}

	user := &models.User{
		Username: username,
		IsActive: true,
		Roles:    roles,
	}
	require.NoError(t, models.DB.Create(user).Error)
	return user
}

package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"identity-api/internal/config"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/identity_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "24h",
			Issuer:    "identity-api-test",
		},
		Security: config.SecurityConfig{
			BcryptCost:          4,
			SlowRequestMs:       5000,
			PasswordHistorySize: 5,
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)

	return cfg
}

// cleanupTestDB cleans up test database
func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		if cfg != nil && cfg.Database.Type == "sqlite" {
			os.Remove(cfg.Database.SQLite.Path)
		}
	}
	models.DB = nil
}

// createTestUser creates an active user with a password and the given roles
func createTestUser(t *testing.T, cfg *config.Config, username, password string, roleNames ...string) *models.User {
	authService := services.NewAuthService(cfg)

	hash := ""
	if password != "" {
		var err error
		hash, err = authService.HashPassword(password)
		require.NoError(t, err)
	}

	var roles []models.Role
	for _, name := range roleNames {
		var role models.Role
		require.NoError(t, models.DB.Where("name = ?", name).First(&role).Error)
		roles = append(roles, role)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		IsActive:     true,
		PasswordHash: hash,
		Roles:        roles,
	}
	require.NoError(t, models.DB.Create(user).Error)

	if hash != "" {
		require.NoError(t, models.DB.Create(&models.PasswordHistory{
			UserID:       user.ID,
			PasswordHash: hash,
		}).Error)
	}

	return user
}

// createTestToken creates a JWT token for testing
func createTestToken(t *testing.T, cfg *config.Config, user *models.User) string {
	expiresIn, _ := time.ParseDuration(cfg.JWT.ExpiresIn)
	if expiresIn == 0 {
		expiresIn = 24 * time.Hour
	}
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"roles":    user.RoleNames(),
		"exp":      now.Add(expiresIn).Unix(),
		"iat":      now.Unix(),
		"iss":      cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	return tokenString
}

// setupTestRouter creates a test router with routes
func setupTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

// doRequest performs a request against a fresh router and returns the recorder
func doRequest(router *gin.Engine, method, path, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

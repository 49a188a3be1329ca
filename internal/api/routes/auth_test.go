package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"identity-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	user := createTestUser(t, cfg, "alice", "alice12345", models.RoleUser)
	inactive := createTestUser(t, cfg, "inactive", "inactive12345", models.RoleUser)
	require.NoError(t, models.DB.Model(inactive).Update("is_active", false).Error)

	router := setupTestRouter(cfg)

	login := func(username, password string) *bytes.Buffer {
		body, _ := json.Marshal(map[string]any{"username": username, "password": password})
		return bytes.NewBuffer(body)
	}

	t.Run("POST /api/auth/login - Success returns non-empty token", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/auth/login", "", login("alice", "alice12345"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		var token string
		require.NoError(t, json.Unmarshal(response["token"], &token))
		assert.NotEmpty(t, token)

		// Successful login is audited
		var count int64
		models.DB.Model(&models.AuditLog{}).
			Where("action = ? AND user_id = ?", models.AuditActionLogin, user.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("POST /api/auth/login - Wrong password", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/auth/login", "", login("alice", "wrong"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), `"token"`)
	})

	t.Run("POST /api/auth/login - Inactive account", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/auth/login", "", login("inactive", "inactive12345"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), `"token"`)

		var count int64
		models.DB.Model(&models.AuditLog{}).
			Where("action = ?", models.AuditActionLoginFailed).
			Count(&count)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("POST /api/auth/login - Unknown username", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/auth/login", "", login("nobody", "whatever"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /api/auth/login - Missing fields", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/auth/login", "", login("alice", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /api/auth/me - Returns current user", func(t *testing.T) {
		token := createTestToken(t, cfg, user)

		w := doRequest(router, "GET", "/api/auth/me", token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "alice", response.Username)
	})

	t.Run("GET /api/auth/me - Malformed token is audited as breach", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/auth/me", "not-a-jwt", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var count int64
		models.DB.Model(&models.AuditLog{}).
			Where("action = ? AND user_id = 0", models.AuditActionBreach).
			Count(&count)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("GET /api/auth/me - Wrong signing secret rejected", func(t *testing.T) {
		otherCfg := *cfg
		otherCfg.JWT.Secret = "some-other-secret"
		token := createTestToken(t, &otherCfg, user)

		w := doRequest(router, "GET", "/api/auth/me", token, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

package middleware

import (
	"errors"
	"fmt"
	"strings"

	"identity-api/internal/config"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// AuthMiddleware validates the bearer token and loads the acting user with
// current roles into the context. Invalid tokens are recorded as
// authorization breaches.
func AuthMiddleware(cfg *config.Config, auditService *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := parseToken(cfg, parts[1])
		if err != nil {
			auditService.Log(0, models.AuditActionBreach,
				fmt.Sprintf("token validation failed: %v", err),
				c.ClientIP(), c.GetHeader("User-Agent"))
			c.JSON(401, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			auditService.Log(0, models.AuditActionBreach,
				"token missing user_id claim",
				c.ClientIP(), c.GetHeader("User-Agent"))
			c.JSON(401, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Roles are read from the database, not the token, so revocations
		// take effect before the token expires.
		var user models.User
		if err := models.DB.Preload("Roles").First(&user, uint(userID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(401, gin.H{"error": "Invalid or expired token"})
			} else {
				c.JSON(500, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(401, gin.H{"error": "Account is deactivated"})
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Set("user_id", user.ID)

		c.Next()
	}
}

func parseToken(cfg *config.Config, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	}, jwt.WithIssuer(cfg.JWT.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireRole allows the request through when the acting user holds any of
// the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		u := user.(*models.User)
		hasRole := false
		for _, role := range roles {
			if u.HasRole(role) {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

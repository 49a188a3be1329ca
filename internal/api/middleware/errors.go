package middleware

import (
	"fmt"

	"identity-api/internal/logger"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panics, records them in the audit log and converts
// them into a generic 500 response.
func ErrorHandler(auditService *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, r)

				var userID uint
				if id, exists := c.Get("user_id"); exists {
					userID = id.(uint)
				}
				auditService.Log(userID, models.AuditActionException,
					fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, r),
					c.ClientIP(), c.GetHeader("User-Agent"))

				c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error"})
			}
		}()

		c.Next()
	}
}

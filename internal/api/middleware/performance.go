package middleware

import (
	"fmt"
	"time"

	"identity-api/internal/config"
	"identity-api/internal/logger"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Performance times each request and records requests slower than the
// configured threshold in the audit log.
func Performance(cfg *config.Config, auditService *services.AuditService) gin.HandlerFunc {
	threshold := time.Duration(cfg.Security.SlowRequestMs) * time.Millisecond

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		if elapsed < threshold {
			return
		}

		var userID uint
		if id, exists := c.Get("user_id"); exists {
			userID = id.(uint)
		}

		logger.Warningf("slow request: %s %s took %s", c.Request.Method, c.Request.URL.Path, elapsed)
		auditService.Log(userID, models.AuditActionSlowRequest,
			fmt.Sprintf("%s %s took %dms (threshold %dms)",
				c.Request.Method, c.Request.URL.Path,
				elapsed.Milliseconds(), cfg.Security.SlowRequestMs),
			c.ClientIP(), c.GetHeader("User-Agent"))
	}
}

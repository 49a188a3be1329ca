package handlers

import (
	"strconv"

	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GetAuditLogs returns one page of audit records, optionally filtered by
// action and user_id.
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	userID, _ := strconv.ParseUint(c.DefaultQuery("user_id", "0"), 10, 32)

	logs, total, err := h.auditService.List(services.AuditFilter{
		Action:   c.Query("action"),
		UserID:   uint(userID),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get audit logs", "details": err.Error()})
		return
	}

	setPaginationHeaders(c, total, page, pageSize)
	c.JSON(200, gin.H{"audit_logs": logs})
}

package services

import (
	"identity-api/internal/logger"
	"identity-api/internal/models"

	"github.com/google/uuid"
)

type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Log inserts a single audit record. Failures are logged and swallowed so
// auditing never fails the request that triggered it.
func (s *AuditService) Log(userID uint, action, details, ipAddress, userAgent string) {
	entry := &models.AuditLog{
		UUID:      uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := models.DB.Create(entry).Error; err != nil {
		logger.Warningf("failed to write audit log (%s): %v", action, err)
	}
}

type AuditFilter struct {
	Action   string
	UserID   uint
	Page     int
	PageSize int
}

// List returns audit records newest first with the total count for pagination.
func (s *AuditService) List(filter AuditFilter) ([]models.AuditLog, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	query := models.DB.Model(&models.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.PageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

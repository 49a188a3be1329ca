package models

import (
	"time"
)

// Audit actions recorded by middleware and the permission evaluator.
const (
	AuditActionBreach      = "authorization_breach"
	AuditActionException   = "exception"
	AuditActionSlowRequest = "slow_request"
	AuditActionLogin       = "login"
	AuditActionLoginFailed = "login_failed"
)

// AuditLog is an append-only security/operational event record.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"type:varchar(36);uniqueIndex"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"type:varchar(50);not null;index"`
	Details   string    `json:"details" gorm:"type:text"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent string    `json:"user_agent" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

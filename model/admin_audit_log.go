package model

import (
	"time"
)

// AdminAuditLog represents the audit trail for admin mutations on the
// catalog and on user roles
type AdminAuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminID     uint      `gorm:"not null;index" json:"admin_id"`
	Action      string    `gorm:"type:varchar(100);not null" json:"action"` // e.g., "note_delete", "role_update"
	Resource    string    `gorm:"type:varchar(100)" json:"resource"`        // e.g., "notes", "users"
	ResourceID  uint      `json:"resource_id"`
	NewValue    string    `gorm:"type:text" json:"new_value"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}

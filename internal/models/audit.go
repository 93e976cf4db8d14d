package models

import "time"

const (
	AuditViewUsers      = "VIEW_USERS"
	AuditChangeUserRole = "CHANGE_USER_ROLE"
	AuditDeleteUser     = "DELETE_USER"
	AuditViewStats      = "VIEW_STATS"
	AuditCreateMovie    = "CREATE_MOVIE"
	AuditUpdateMovie    = "UPDATE_MOVIE"
	AuditDeleteMovie    = "DELETE_MOVIE"
)

// AuditLog is an append-only record of an admin action.
type AuditLog struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	ActorID   string                 `gorm:"type:uuid;not null;index" json:"actorId"`
	Action    string                 `gorm:"not null;size:40;index" json:"action"`
	TargetID  *string                `gorm:"size:64" json:"targetId,omitempty"`
	Details   map[string]interface{} `gorm:"serializer:json;type:jsonb" json:"details,omitempty"`
	IP        string                 `gorm:"size:64" json:"ip,omitempty"`
	CreatedAt time.Time              `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

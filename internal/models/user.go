package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is an identity. The password is only ever held as a bcrypt hash.
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null;size:100" json:"name" example:"Jane Doe"`
	Email        string     `gorm:"uniqueIndex;not null;size:320" json:"email" example:"jane@example.com"`
	PasswordHash string     `gorm:"not null;size:255" json:"-"`
	Role         string     `gorm:"not null;size:20;default:member;index" json:"role" example:"member"`
	Avatar       string     `json:"avatar,omitempty"`
	Bio          string     `gorm:"size:500" json:"bio,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole reports whether role is assignable through the admin surface.
func IsValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

type AdminStats struct {
	TotalUsers          int64        `json:"totalUsers" example:"120"`
	Admins              int64        `json:"admins" example:"2"`
	Members             int64        `json:"members" example:"118"`
	LatestUsers         []User       `json:"latestUsers"`
	RecentRegistrations int64        `json:"recentRegistrations" example:"14"`
	ActiveUsers         int64        `json:"activeUsers" example:"37"`
	Catalog             CatalogStats `json:"catalog"`
}

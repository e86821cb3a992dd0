package models

import (
	"time"
)

// Role hierarchy used across the review workflow. Higher value means more
// authority; guards compare with >= so an admin can perform any action.
const (
	RoleStaff    = 1
	RoleReviewer = 2
	RoleApprover = 3
	RoleAdmin    = 4
)

// RoleName returns the display name for a role id.
func RoleName(roleID int) string {
	switch roleID {
	case RoleStaff:
		return "staff"
	case RoleReviewer:
		return "reviewer"
	case RoleApprover:
		return "approver"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type User struct {
	UserID   int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name     string     `gorm:"column:name" json:"name"`
	Email    string     `gorm:"column:email;unique" json:"email"`
	RoleID   int        `gorm:"column:role_id" json:"role_id"`
	IsActive bool       `gorm:"column:is_active" json:"is_active"`
	Division *string    `gorm:"column:division" json:"division,omitempty"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

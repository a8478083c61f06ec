package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	AccountActive   = "active"
	AccountInactive = "inactive"
)

// User mirrors the account directory this service consumes. Account CRUD
// lives elsewhere; this service reads role/grade and writes the
// subscription fields on payment success.
type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Username string `gorm:"not null;uniqueIndex" json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `gorm:"not null;default:'student'" json:"role"`
	Grade    string `json:"grade"`
	City     string `json:"city"`
	School   string `json:"school"`

	AccountStatus      string     `gorm:"not null;default:'inactive'" json:"account_status"`
	SubscriptionPlan   string     `json:"subscription_plan"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	PendingRenewal     bool       `gorm:"not null;default:false" json:"pending_renewal"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// CanViewResult reports whether u may read another student's result.
func (u *User) CanViewResult(ownerID uint) bool {
	return u.ID == ownerID || u.Role == RoleAdmin || u.Role == RoleTeacher
}

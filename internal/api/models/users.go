package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values carried by User.Role. Permissions are resolved from these in
// the authz package, not here.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      string `gorm:"default:'user';not null" json:"role"`

	// Bcrypt hash of the emailed confirmation code. Empty when no code is
	// outstanding; cleared again after a successful exchange.
	ConfirmationCodeHash string `gorm:"column:confirmation_code_hash" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsStaff reports whether the user may act on resources they do not own.
func (user *User) IsStaff() bool {
	return user.Role == RoleModerator || user.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}

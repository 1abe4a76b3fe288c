package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber    string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Role           string    `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	Status         string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Point          int64     `gorm:"not null;default:0" json:"point"`
	TelegramChatID int64     `gorm:"default:0" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// User roles
const (
	RoleAdmin        = "admin"
	RoleClient       = "client"
	RoleProfessional = "professional"
)

// User status constants
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// BeforeCreate assigns the UUID and defaults before the first insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.applyDefaults()
	return nil
}

// BeforeSave validates the row. gorm runs it ahead of BeforeCreate, so defaults are applied here too.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.applyDefaults()

	if u.Point < 0 {
		return gorm.ErrInvalidData
	}

	validRoles := map[string]bool{
		RoleAdmin:        true,
		RoleClient:       true,
		RoleProfessional: true,
	}
	if !validRoles[u.Role] {
		return gorm.ErrInvalidData
	}

	validStatuses := map[string]bool{
		UserStatusActive:    true,
		UserStatusSuspended: true,
	}
	if !validStatuses[u.Status] {
		return gorm.ErrInvalidData
	}

	return nil
}

func (u *User) applyDefaults() {
	if u.Role == "" {
		u.Role = RoleClient
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsConfig holds the flat reward granted per check-in. Only the oldest row is used.
type PointsConfig struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Point       int64     `gorm:"not null;default:0" json:"point"`
	Description string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *PointsConfig) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (PointsConfig) TableName() string {
	return "points"
}

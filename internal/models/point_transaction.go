package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrImmutableTransaction is returned when something tries to rewrite the ledger.
var ErrImmutableTransaction = errors.New("point transactions are append-only")

type PointTransaction struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Type        string    `gorm:"type:varchar(20);not null;index" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Transaction type constants
const (
	TxTypeReward = "Reward"
	TxTypeRedeem = "Redeem"
)

// TxTypeFor picks the ledger type from the sign of the amount.
func TxTypeFor(amount int64) string {
	if amount > 0 {
		return TxTypeReward
	}
	return TxTypeRedeem
}

func (t *PointTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.UserID == "" || t.Amount == 0 {
		return gorm.ErrInvalidData
	}
	if t.Type != TxTypeReward && t.Type != TxTypeRedeem {
		return gorm.ErrInvalidData
	}
	return nil
}

func (t *PointTransaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (t *PointTransaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}

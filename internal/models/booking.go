package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID       string    `gorm:"type:uuid;not null;index" json:"client_id"`
	UserID         string    `gorm:"type:uuid;index" json:"user_id"`
	ProfessionalID string    `gorm:"type:uuid;not null;index" json:"professional_id"`
	ServiceID      string    `gorm:"type:uuid;not null;index" json:"service_id"`
	Date           string    `gorm:"type:varchar(20);not null" json:"date"`
	Time           string    `gorm:"type:varchar(20);not null" json:"time"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Notes          string    `gorm:"type:varchar(500)" json:"notes,omitempty"`
	IsCheckedIn    bool      `gorm:"not null;default:false" json:"is_checked_in"`
	PaymentStatus  string    `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"payment_status"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Booking status constants
const (
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCompleted = "Completed"
	BookingStatusCancelled = "Cancelled"
)

// Payment status constants
const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusUnpaid  = "Unpaid"
	PaymentStatusPending = "Pending"
	PaymentStatusFailed  = "Failed"
)

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.applyDefaults()
	return nil
}

// BeforeSave validates the row. gorm runs it ahead of BeforeCreate, so defaults are applied here too.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	b.applyDefaults()

	validStatuses := map[string]bool{
		BookingStatusPending:   true,
		BookingStatusConfirmed: true,
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	}
	if !validStatuses[b.Status] {
		return gorm.ErrInvalidData
	}

	validPaymentStatuses := map[string]bool{
		PaymentStatusPaid:    true,
		PaymentStatusUnpaid:  true,
		PaymentStatusPending: true,
		PaymentStatusFailed:  true,
	}
	if !validPaymentStatuses[b.PaymentStatus] {
		return gorm.ErrInvalidData
	}

	return nil
}

func (b *Booking) applyDefaults() {
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentStatusUnpaid
	}
}

func (Booking) TableName() string {
	return "bookings"
}

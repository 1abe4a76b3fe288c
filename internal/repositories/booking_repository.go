package repositories

import (
	"context"

	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/pkg/errors"
	"gorm.io/gorm"
)

type BookingRepository struct {
	*Repository[models.Booking]
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{Repository: NewRepository[models.Booking](db, "booking")}
}

func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{Repository: r.Repository.WithTx(tx)}
}

// MarkCheckedIn flips is_checked_in only if it is still false.
func (r *BookingRepository) MarkCheckedIn(ctx context.Context, booking *models.Booking) error {
	result := r.conn(ctx).
		Model(booking).
		Where("is_checked_in = ?", false).
		Update("is_checked_in", true)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodePersistenceFailure, "failed to check in booking")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyCheckedIn, "booking already checked in")
	}
	booking.IsCheckedIn = true
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := r.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to get bookings")
	}
	return bookings, nil
}

package services

import (
	"context"
	"strings"

	"github.com/mroshb/booking_api/internal/metrics"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/repositories"
	"github.com/mroshb/booking_api/internal/security"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/mroshb/booking_api/pkg/logger"
	"gorm.io/gorm"
)

const maxNotesLength = 500

type CheckInResult struct {
	Booking *models.Booking `json:"booking"`
	Reward  *CheckInReward  `json:"reward"`
}

type BookingService struct {
	db       *gorm.DB
	bookings *repositories.BookingRepository
	points   *PointsService
}

func NewBookingService(db *gorm.DB, bookings *repositories.BookingRepository, points *PointsService) *BookingService {
	return &BookingService{
		db:       db,
		bookings: bookings,
		points:   points,
	}
}

// CheckIn marks the booking as checked in and credits the check-in reward to the
// booking's user. Both writes commit together or not at all.
func (s *BookingService) CheckIn(ctx context.Context, bookingID string) (*CheckInResult, error) {
	var (
		booking *models.Booking
		adj     *PointsAdjustment
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)

		var err error
		booking, err = bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.IsCheckedIn {
			return errors.New(errors.ErrCodeAlreadyCheckedIn, "booking already checked in")
		}
		if booking.UserID == "" {
			return errors.New(errors.ErrCodeNotFound, "booking has no user to reward")
		}

		if err := bookings.MarkCheckedIn(ctx, booking); err != nil {
			return err
		}

		adj, err = s.points.giveCheckInPointsTx(ctx, tx, booking.UserID)
		return err
	})
	if err != nil {
		err = persistenceError(err, "failed to commit check-in")
		metrics.ObserveCheckIn(err)
		logger.Warn("Check-in failed", "booking_id", bookingID, "error", err)
		return nil, err
	}

	metrics.ObserveCheckIn(nil)
	logger.Info("Booking checked in", "booking_id", booking.ID, "user_id", booking.UserID, "points", adj.Amount)
	s.points.committed(ctx, adj)

	return &CheckInResult{Booking: booking, Reward: toCheckInReward(adj)}, nil
}

// CreateBooking stores a new booking. Status and payment status default to Pending and Unpaid.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking == nil {
		return nil, errors.New(errors.ErrCodeValidation, "booking is required")
	}

	booking.Date = strings.TrimSpace(booking.Date)
	booking.Time = strings.TrimSpace(booking.Time)
	booking.Notes = security.SanitizeString(security.SanitizeHTML(booking.Notes), maxNotesLength)

	switch {
	case booking.ClientID == "":
		return nil, errors.New(errors.ErrCodeValidation, "client_id is required")
	case booking.ProfessionalID == "":
		return nil, errors.New(errors.ErrCodeValidation, "professional_id is required")
	case booking.ServiceID == "":
		return nil, errors.New(errors.ErrCodeValidation, "service_id is required")
	case booking.Date == "" || booking.Time == "":
		return nil, errors.New(errors.ErrCodeValidation, "date and time are required")
	}

	// Check-in only ever happens through CheckIn.
	booking.ID = ""
	booking.IsCheckedIn = false

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	logger.Info("Booking created", "booking_id", booking.ID, "user_id", booking.UserID)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.bookings.FindByID(ctx, bookingID)
}

// GetMyBookings returns the user's bookings, newest first.
func (s *BookingService) GetMyBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/repositories"
	"github.com/mroshb/booking_api/internal/testutil"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBookingService(db *gorm.DB, notifier *recordingNotifier) *BookingService {
	var points *PointsService
	if notifier != nil {
		points = newPointsService(db, notifier)
	} else {
		points = newPointsService(db, nil)
	}
	return NewBookingService(db, repositories.NewBookingRepository(db), points)
}

func reloadBooking(t *testing.T, db *gorm.DB, id string) *models.Booking {
	t.Helper()
	booking, err := repositories.NewBookingRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return booking
}

func TestCheckIn(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	testutil.CreatePointsConfig(t, db, 3)
	booking := testutil.CreateBooking(t, db, user.ID)
	notifier := &recordingNotifier{}
	svc := newBookingService(db, notifier)

	got, err := svc.CheckIn(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.True(t, got.Booking.IsCheckedIn)
	assert.Equal(t, booking.ID, got.Booking.ID)
	assert.Equal(t, user.ID, got.Reward.UserID)
	assert.Equal(t, int64(3), got.Reward.AddedPoints)
	assert.Equal(t, int64(3), got.Reward.NewTotal)
	assert.Equal(t, CheckInDescription, got.Reward.Transaction.Description)

	assert.True(t, reloadBooking(t, db, booking.ID).IsCheckedIn)
	assert.Equal(t, int64(3), balanceOf(t, db, user.ID))
	assert.Len(t, ledgerOf(t, db, user.ID), 1)
	assert.Len(t, notifier.calls(), 1)
}

func TestCheckIn_Twice(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	testutil.CreatePointsConfig(t, db, 3)
	booking := testutil.CreateBooking(t, db, user.ID)
	svc := newBookingService(db, nil)

	_, err := svc.CheckIn(context.Background(), booking.ID)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), booking.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyCheckedIn), "got %v", err)

	assert.Equal(t, int64(3), balanceOf(t, db, user.ID))
	assert.Len(t, ledgerOf(t, db, user.ID), 1)
}

func TestCheckIn_UnknownBooking(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db, nil)

	_, err := svc.CheckIn(context.Background(), "missing-booking")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestCheckIn_RollsBackWhenRewardFails(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, db *gorm.DB) string
		wantCode string
	}{
		{
			name: "No points configuration",
			setup: func(t *testing.T, db *gorm.DB) string {
				return testutil.CreateUser(t, db, 0).ID
			},
			wantCode: errors.ErrCodeConfigurationMissing,
		},
		{
			name: "Reward user missing",
			setup: func(t *testing.T, db *gorm.DB) string {
				testutil.CreatePointsConfig(t, db, 3)
				return "deleted-user"
			},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name: "Booking without a user",
			setup: func(t *testing.T, db *gorm.DB) string {
				testutil.CreatePointsConfig(t, db, 3)
				return ""
			},
			wantCode: errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			userID := tt.setup(t, db)
			booking := testutil.CreateBooking(t, db, userID)
			notifier := &recordingNotifier{}
			svc := newBookingService(db, notifier)

			_, err := svc.CheckIn(context.Background(), booking.ID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)

			assert.False(t, reloadBooking(t, db, booking.ID).IsCheckedIn, "check-in must roll back with the reward")
			assert.Empty(t, notifier.calls())
		})
	}
}

func TestCheckIn_Concurrent(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	testutil.CreatePointsConfig(t, db, 3)
	booking := testutil.CreateBooking(t, db, user.ID)
	svc := newBookingService(db, nil)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		duplicate int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), booking.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, errors.ErrCodeAlreadyCheckedIn):
				duplicate++
			default:
				t.Errorf("CheckIn() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, duplicate)
	assert.Equal(t, int64(3), balanceOf(t, db, user.ID))
	assert.Len(t, ledgerOf(t, db, user.ID), 1)
}

// A user who books, checks in and then redeems ends up with the
// check-in reward minus what was redeemed, and two ledger entries.
func TestCheckIn_ThenRedeem(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	testutil.CreatePointsConfig(t, db, 3)
	svc := newBookingService(db, nil)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, &models.Booking{
		ClientID:       "c0a8012e-0000-4000-8000-000000000001",
		UserID:         user.ID,
		ProfessionalID: "c0a8012e-0000-4000-8000-000000000002",
		ServiceID:      "c0a8012e-0000-4000-8000-000000000003",
		Date:           "2026-10-20",
		Time:           "10:00",
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, booking.ID)
	require.NoError(t, err)

	_, err = svc.points.RedeemPoints(ctx, user.ID, 2)
	require.NoError(t, err)

	summary, err := svc.points.GetUserPoints(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Balance)
	require.Len(t, summary.Transactions, 2)

	_, err = svc.points.RedeemPoints(ctx, user.ID, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientBalance), "got %v", err)
}

func TestCreateBooking(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	svc := newBookingService(db, nil)

	got, err := svc.CreateBooking(context.Background(), &models.Booking{
		ClientID:       "c0a8012e-0000-4000-8000-000000000001",
		UserID:         user.ID,
		ProfessionalID: "c0a8012e-0000-4000-8000-000000000002",
		ServiceID:      "c0a8012e-0000-4000-8000-000000000003",
		Date:           " 2026-10-20 ",
		Time:           "10:00",
		Notes:          "<i>Window seat</i>",
		IsCheckedIn:    true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "2026-10-20", got.Date)
	assert.Equal(t, "Window seat", got.Notes)
	assert.Equal(t, models.BookingStatusPending, got.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, got.PaymentStatus)
	assert.False(t, got.IsCheckedIn)
	assert.False(t, reloadBooking(t, db, got.ID).IsCheckedIn)
}

func TestCreateBooking_WithoutStatusesStoresDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	svc := newBookingService(db, nil)

	got, err := svc.CreateBooking(context.Background(), &models.Booking{
		ClientID:       "c0a8012e-0000-4000-8000-000000000001",
		UserID:         user.ID,
		ProfessionalID: "c0a8012e-0000-4000-8000-000000000002",
		ServiceID:      "c0a8012e-0000-4000-8000-000000000003",
		Date:           "2026-10-21",
		Time:           "09:30",
	})
	require.NoError(t, err)

	stored := reloadBooking(t, db, got.ID)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, stored.PaymentStatus)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestCreateBooking_Validation(t *testing.T) {
	valid := func() *models.Booking {
		return &models.Booking{
			ClientID:       "c1",
			ProfessionalID: "p1",
			ServiceID:      "s1",
			Date:           "2026-10-20",
			Time:           "10:00",
		}
	}

	tests := []struct {
		name   string
		mutate func(b *models.Booking)
	}{
		{name: "Missing client", mutate: func(b *models.Booking) { b.ClientID = "" }},
		{name: "Missing professional", mutate: func(b *models.Booking) { b.ProfessionalID = "" }},
		{name: "Missing service", mutate: func(b *models.Booking) { b.ServiceID = "" }},
		{name: "Blank date", mutate: func(b *models.Booking) { b.Date = "   " }},
		{name: "Missing time", mutate: func(b *models.Booking) { b.Time = "" }},
	}

	db := testutil.NewDB(t)
	svc := newBookingService(db, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := valid()
			tt.mutate(booking)

			_, err := svc.CreateBooking(context.Background(), booking)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeValidation), "got %v", err)
		})
	}

	_, err := svc.CreateBooking(context.Background(), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation), "got %v", err)
}

func TestGetMyBookings(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, 0)
	other := testutil.CreateUser(t, db, 0)
	first := testutil.CreateBooking(t, db, user.ID)
	second := testutil.CreateBooking(t, db, user.ID)
	testutil.CreateBooking(t, db, other.ID)
	svc := newBookingService(db, nil)

	bookings, err := svc.GetMyBookings(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	ids := []string{bookings[0].ID, bookings[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	assert.False(t, bookings[0].CreatedAt.Before(bookings[1].CreatedAt))

	got, err := svc.GetBooking(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

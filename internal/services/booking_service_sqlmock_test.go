package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockBookingSQL     = `SELECT \* FROM "bookings" WHERE id = \$1 ORDER BY "bookings"."id" LIMIT \$2 FOR UPDATE`
	markCheckedInSQL   = `UPDATE "bookings" SET "is_checked_in"=.* WHERE .*is_checked_in = `
	lockRewardUserSQL  = `SELECT \* FROM "users" .* FOR UPDATE`
	mockBookingID      = "b-1"
	mockBookingOwnerID = "u-1"
)

func bookingRows(checkedIn bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "client_id", "professional_id", "service_id",
		"date", "time", "status", "payment_status", "is_checked_in",
	}).AddRow(
		mockBookingID, mockBookingOwnerID, "c-1", "p-1", "s-1",
		"2026-10-20", "10:00", "Pending", "Unpaid", checkedIn,
	)
}

// The booking row is locked before the conditional update, and the reward
// user is locked in the same transaction.
func TestCheckIn_LocksBookingBeforeConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	notifier := &recordingNotifier{}
	svc := newBookingService(db, notifier)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WithArgs(mockBookingID, sqlmock.AnyArg()).
		WillReturnRows(bookingRows(false))
	mock.ExpectExec(markCheckedInSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(lockRewardUserSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.CheckIn(context.Background(), mockBookingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
	assert.Empty(t, notifier.calls())

	require.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent check-in that committed between the lock and the update leaves
// the conditional update with no rows, so nothing is rewarded.
func TestCheckIn_ConditionalUpdateMissReturnsAlreadyCheckedIn(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newBookingService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WillReturnRows(bookingRows(false))
	mock.ExpectExec(markCheckedInSQL).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CheckIn(context.Background(), mockBookingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyCheckedIn), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_LockedRowAlreadyCheckedInSkipsUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newBookingService(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockBookingSQL).
		WillReturnRows(bookingRows(true))
	mock.ExpectRollback()

	_, err := svc.CheckIn(context.Background(), mockBookingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeAlreadyCheckedIn), "got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

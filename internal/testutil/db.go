// Package testutil provides in-memory databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mroshb/booking_api/internal/database"
	"github.com/mroshb/booking_api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
//
// The pool is capped at one connection, so transactions from concurrent
// goroutines run one after another. sqlite drops the FOR UPDATE clause, so the
// concurrency tests built on this only check the outcome; the row locks
// themselves are asserted by the sqlmock tests in internal/services.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                database.NowUTC,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// CreateUser inserts a client with the given balance.
func CreateUser(t *testing.T, db *gorm.DB, point int64) *models.User {
	t.Helper()

	user := &models.User{
		Name:  "Test User",
		Email: uuid.NewString() + "@example.com",
		Point: point,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreatePointsConfig inserts a check-in reward configuration row.
func CreatePointsConfig(t *testing.T, db *gorm.DB, point int64) *models.PointsConfig {
	t.Helper()

	cfg := &models.PointsConfig{Point: point, Description: "check-in reward"}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("failed to create points config: %v", err)
	}
	return cfg
}

// CreateBooking inserts a pending booking whose check-in rewards userID.
func CreateBooking(t *testing.T, db *gorm.DB, userID string) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ClientID:       uuid.NewString(),
		UserID:         userID,
		ProfessionalID: uuid.NewString(),
		ServiceID:      uuid.NewString(),
		Date:           "2026-10-20",
		Time:           "10:00",
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

package database

import (
	"fmt"
	"time"

	"github.com/mroshb/booking_api/internal/config"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: NowUTC,
		// Ledger writes open their own transactions explicitly
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

// NowUTC is the clock used for every autoCreateTime/autoUpdateTime column.
func NowUTC() time.Time {
	return time.Now().UTC()
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.PointTransaction{},
		&models.PointsConfig{},
		&models.Booking{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedPointsConfig inserts the check-in reward row when the points table is empty.
func SeedPointsConfig(db *gorm.DB, checkInPoints int64) error {
	var count int64
	if err := db.Model(&models.PointsConfig{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count points configuration: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding points configuration...", "checkin_points", checkInPoints)
	cfg := &models.PointsConfig{
		Point:       checkInPoints,
		Description: "Points awarded per booking check-in",
	}
	if err := db.Create(cfg).Error; err != nil {
		return fmt.Errorf("failed to seed points configuration: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/mroshb/booking_api/internal/metrics"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/notify"
	"github.com/mroshb/booking_api/internal/repositories"
	"github.com/mroshb/booking_api/internal/security"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/mroshb/booking_api/pkg/logger"
	"gorm.io/gorm"
)

const (
	// BookingRewardPercent of the booking price is credited on completion, rounded down.
	BookingRewardPercent = 5

	DefaultAdjustmentDescription = "Point adjustment"
	RedeemDescription            = "Redeemed points"
	CheckInDescription           = "Points awarded for check-in"
)

type PointsAdjustment struct {
	UserID      string                   `json:"userId"`
	OldBalance  int64                    `json:"oldBalance"`
	NewBalance  int64                    `json:"newBalance"`
	Amount      int64                    `json:"amount"`
	Transaction *models.PointTransaction `json:"transaction"`

	chatID int64
}

type CheckInReward struct {
	UserID      string                   `json:"user_id"`
	AddedPoints int64                    `json:"addedPoints"`
	NewTotal    int64                    `json:"newTotal"`
	Transaction *models.PointTransaction `json:"transaction"`
}

type UserPoints struct {
	Balance      int64                     `json:"balance"`
	Transactions []models.PointTransaction `json:"transactions"`
}

// PointsService is the only writer of user balances. Each mutation locks the
// user row, writes the balance and appends one ledger entry in one transaction.
type PointsService struct {
	db           *gorm.DB
	users        *repositories.UserRepository
	transactions *repositories.PointTransactionRepository
	configs      *repositories.PointsConfigRepository
	notifier     notify.Notifier
}

func NewPointsService(
	db *gorm.DB,
	users *repositories.UserRepository,
	transactions *repositories.PointTransactionRepository,
	configs *repositories.PointsConfigRepository,
	notifier notify.Notifier,
) *PointsService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &PointsService{
		db:           db,
		users:        users,
		transactions: transactions,
		configs:      configs,
		notifier:     notifier,
	}
}

// AdjustPoints adds (amount > 0) or deducts (amount < 0) points.
// A zero amount is a no-op and returns a nil result.
func (s *PointsService) AdjustPoints(ctx context.Context, userID string, amount int64, description string) (*PointsAdjustment, error) {
	if amount == 0 {
		return nil, nil
	}

	description = security.SanitizeDescription(description)
	if description == "" {
		description = DefaultAdjustmentDescription
	}

	var result *PointsAdjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.adjustTx(ctx, tx, userID, amount, description)
		return err
	})
	if err != nil {
		err = persistenceError(err, "failed to commit point adjustment")
		metrics.ObserveAdjustment(models.TxTypeFor(amount), amount, err)
		logger.Warn("Point adjustment failed", "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	s.committed(ctx, result)
	return result, nil
}

// RewardForBooking credits BookingRewardPercent of bookingPrice, rounded down.
func (s *PointsService) RewardForBooking(ctx context.Context, userID string, bookingPrice float64) (*PointsAdjustment, error) {
	reward, err := BookingReward(bookingPrice)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Reward for booking (₦%s)", strconv.FormatFloat(bookingPrice, 'f', -1, 64))
	return s.AdjustPoints(ctx, userID, reward, description)
}

// BookingReward is floor(price * 5%). The price must be finite, non-negative and small
// enough for the reward to fit in an int64.
func BookingReward(bookingPrice float64) (int64, error) {
	if math.IsNaN(bookingPrice) || math.IsInf(bookingPrice, 0) || bookingPrice < 0 {
		return 0, errors.New(errors.ErrCodeValidation, "booking price must be a non-negative number")
	}

	reward := math.Floor(bookingPrice * BookingRewardPercent / 100)
	if reward >= math.MaxInt64 {
		return 0, errors.New(errors.ErrCodeValidation, "booking price is too large")
	}
	return int64(reward), nil
}

func (s *PointsService) RedeemPoints(ctx context.Context, userID string, pointsToUse int64) (*PointsAdjustment, error) {
	if pointsToUse <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "pointsToUse must be a positive integer")
	}
	return s.AdjustPoints(ctx, userID, -pointsToUse, RedeemDescription)
}

// GiveCheckInPoints credits the configured check-in reward.
func (s *PointsService) GiveCheckInPoints(ctx context.Context, userID string) (*CheckInReward, error) {
	var adj *PointsAdjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		adj, err = s.giveCheckInPointsTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		err = persistenceError(err, "failed to commit check-in reward")
		metrics.ObserveAdjustment(models.TxTypeReward, 0, err)
		logger.Warn("Check-in reward failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.committed(ctx, adj)
	return toCheckInReward(adj), nil
}

func (s *PointsService) GetTransactionHistory(ctx context.Context, userID string) ([]models.PointTransaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// GetUserPoints returns the current balance together with the full history.
func (s *PointsService) GetUserPoints(ctx context.Context, userID string) (*UserPoints, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.GetTransactionHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserPoints{Balance: balance, Transactions: transactions}, nil
}

func (s *PointsService) adjustTx(ctx context.Context, tx *gorm.DB, userID string, amount int64, description string) (*PointsAdjustment, error) {
	user, err := s.users.WithTx(tx).LockByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.applyTx(ctx, tx, user, amount, description)
}

// giveCheckInPointsTx runs inside the caller's transaction so a check-in and its
// reward commit or roll back together.
func (s *PointsService) giveCheckInPointsTx(ctx context.Context, tx *gorm.DB, userID string) (*PointsAdjustment, error) {
	user, err := s.users.WithTx(tx).LockByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.WithTx(tx).Current(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Point <= 0 {
		return nil, errors.New(errors.ErrCodeConfigurationMissing, fmt.Sprintf("points configuration must award a positive amount, got %d", cfg.Point))
	}

	return s.applyTx(ctx, tx, user, cfg.Point, CheckInDescription)
}

// applyTx expects user to be locked by tx.
func (s *PointsService) applyTx(ctx context.Context, tx *gorm.DB, user *models.User, amount int64, description string) (*PointsAdjustment, error) {
	oldBalance := user.Point
	if amount > 0 && oldBalance > math.MaxInt64-amount {
		return nil, errors.New(errors.ErrCodeValidation, "point balance would overflow")
	}

	newBalance := oldBalance + amount
	if newBalance < 0 {
		return nil, errors.New(errors.ErrCodeInsufficientBalance, fmt.Sprintf("insufficient points: have %d, need %d", oldBalance, -amount))
	}

	if err := s.users.WithTx(tx).UpdatePoint(ctx, user, newBalance); err != nil {
		return nil, err
	}

	entry := &models.PointTransaction{
		UserID:      user.ID,
		Amount:      amount,
		Type:        models.TxTypeFor(amount),
		Description: description,
	}
	if err := s.transactions.WithTx(tx).Append(ctx, entry); err != nil {
		return nil, err
	}

	return &PointsAdjustment{
		UserID:      user.ID,
		OldBalance:  oldBalance,
		NewBalance:  newBalance,
		Amount:      amount,
		Transaction: entry,
		chatID:      user.TelegramChatID,
	}, nil
}

// committed runs the post-commit side effects. A failed notification is only logged.
func (s *PointsService) committed(ctx context.Context, adj *PointsAdjustment) {
	metrics.ObserveAdjustment(adj.Transaction.Type, adj.Amount, nil)
	logger.Info("Points ledger entry committed",
		"user_id", adj.UserID,
		"transaction_id", adj.Transaction.ID,
		"type", adj.Transaction.Type,
		"amount", adj.Amount,
		"new_balance", adj.NewBalance,
	)

	change := notify.PointsChange{
		UserID:      adj.UserID,
		ChatID:      adj.chatID,
		Amount:      adj.Amount,
		NewBalance:  adj.NewBalance,
		Description: adj.Transaction.Description,
	}
	if err := s.notifier.PointsChanged(ctx, change); err != nil {
		logger.Warn("Failed to send points notification", "user_id", adj.UserID, "error", err)
	}
}

func toCheckInReward(adj *PointsAdjustment) *CheckInReward {
	return &CheckInReward{
		UserID:      adj.UserID,
		AddedPoints: adj.Amount,
		NewTotal:    adj.NewBalance,
		Transaction: adj.Transaction,
	}
}

// persistenceError leaves AppErrors alone and tags anything else (begin/commit
// failures from the driver) as a persistence failure.
func persistenceError(err error, message string) error {
	if errors.CodeOf(err) != "" {
		return err
	}
	return errors.Wrap(err, errors.ErrCodePersistenceFailure, message)
}

package repositories

import (
	"context"

	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/pkg/errors"
	"gorm.io/gorm"
)

// PointTransactionRepository is the ledger store. It has no update or delete path.
type PointTransactionRepository struct {
	*Repository[models.PointTransaction]
}

func NewPointTransactionRepository(db *gorm.DB) *PointTransactionRepository {
	return &PointTransactionRepository{Repository: NewRepository[models.PointTransaction](db, "point transaction")}
}

func (r *PointTransactionRepository) WithTx(tx *gorm.DB) *PointTransactionRepository {
	return &PointTransactionRepository{Repository: r.Repository.WithTx(tx)}
}

// Append inserts one ledger entry; ID and CreatedAt are filled in on the passed entry.
func (r *PointTransactionRepository) Append(ctx context.Context, entry *models.PointTransaction) error {
	return r.Create(ctx, entry)
}

// ListByUser returns the user's ledger, newest first.
func (r *PointTransactionRepository) ListByUser(ctx context.Context, userID string) ([]models.PointTransaction, error) {
	transactions := make([]models.PointTransaction, 0)
	result := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodePersistenceFailure, "failed to get transaction history")
	}

	return transactions, nil
}

// CountByUser returns how many ledger entries the user has.
func (r *PointTransactionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.PointTransaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to count transactions")
	}
	return count, nil
}

package repositories

import (
	"context"

	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	*Repository[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[models.User](db, "user")}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{Repository: r.Repository.WithTx(tx)}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.FindByID(ctx, id)
}

// UpdatePoint writes the new balance onto a user previously read in the same transaction.
func (r *UserRepository) UpdatePoint(ctx context.Context, user *models.User, newBalance int64) error {
	if newBalance < 0 {
		return errors.New(errors.ErrCodeInsufficientBalance, "balance cannot go below zero")
	}
	if err := r.conn(ctx).Model(user).Update("point", newBalance).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to update balance")
	}
	return nil
}

// GetBalance retrieves user's current point balance
func (r *UserRepository) GetBalance(ctx context.Context, id string) (int64, error) {
	var user models.User
	if err := r.conn(ctx).Select("id", "point").Where("id = ?", id).First(&user).Error; err != nil {
		return 0, r.translate(err, "get balance of")
	}
	return user.Point, nil
}

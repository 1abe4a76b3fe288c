package repositories

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/pkg/errors"
	"gorm.io/gorm"
)

type PointsConfigRepository struct {
	*Repository[models.PointsConfig]
}

func NewPointsConfigRepository(db *gorm.DB) *PointsConfigRepository {
	return &PointsConfigRepository{Repository: NewRepository[models.PointsConfig](db, "points configuration")}
}

func (r *PointsConfigRepository) WithTx(tx *gorm.DB) *PointsConfigRepository {
	return &PointsConfigRepository{Repository: r.Repository.WithTx(tx)}
}

// Current returns the oldest configuration row; later rows are ignored.
func (r *PointsConfigRepository) Current(ctx context.Context) (*models.PointsConfig, error) {
	var cfg models.PointsConfig
	err := r.conn(ctx).Order("created_at ASC").Order("id ASC").First(&cfg).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeConfigurationMissing, "no points configuration found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to get points configuration")
	}
	return &cfg, nil
}

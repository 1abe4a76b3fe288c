package repositories

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/mroshb/booking_api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the shared CRUD core for one entity type.
// Every method runs on whatever handle the repository holds, so a copy made
// with WithTx takes part in the caller's transaction.
type Repository[T any] struct {
	db   *gorm.DB
	name string
}

func NewRepository[T any](db *gorm.DB, name string) *Repository[T] {
	return &Repository[T]{db: db, name: name}
}

// WithTx returns a copy bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, name: r.name}
}

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.conn(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodePersistenceFailure, fmt.Sprintf("failed to create %s", r.name))
	}
	return nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.conn(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, r.translate(err, "get")
	}
	return &entity, nil
}

// LockByID reads the row with SELECT ... FOR UPDATE; only meaningful inside a transaction.
func (r *Repository[T]) LockByID(ctx context.Context, id string) (*T, error) {
	var entity T
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		return nil, r.translate(err, "lock")
	}
	return &entity, nil
}

func (r *Repository[T]) translate(err error, op string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("%s not found", r.name))
	}
	return errors.Wrap(err, errors.ErrCodePersistenceFailure, fmt.Sprintf("failed to %s %s", op, r.name))
}

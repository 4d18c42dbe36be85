package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "item-service.com/item-service/internal/errors"
)

// Repository is the generic storage gateway: primary-key CRUD shared by
// every entity. Misses are not errors; Get and Delete return nil for an
// absent row and the caller decides what that means.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Get(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *Repository[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	if limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}

	var entities []T
	err := r.db.WithContext(ctx).Offset(skip).Limit(limit).Find(&entities).Error
	return entities, err
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Updates applies only the supplied columns; anything not in fields is
// left untouched.
func (r *Repository[T]) Updates(ctx context.Context, entity *T, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(entity).Updates(fields).Error
}

// Delete removes the row and returns what was removed, so callers can tell
// "deleted" apart from "nothing to delete".
func (r *Repository[T]) Delete(ctx context.Context, id interface{}) (*T, error) {
	existing, err := r.Get(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

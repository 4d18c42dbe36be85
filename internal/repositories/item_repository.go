package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"item-service.com/item-service/internal/constants"
	dto "item-service.com/item-service/internal/data_models"
	apperrors "item-service.com/item-service/internal/errors"
	model "item-service.com/item-service/internal/models"
)

type ItemRepository struct {
	*Repository[model.Item]
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{
		Repository: NewRepository[model.Item](db),
		db:         db,
	}
}

// ItemFilter holds the optional listing predicates. Zero values mean
// "no filter"; predicates are combined with AND.
type ItemFilter struct {
	IDs             []string
	TransactionType constants.TransactionType
	CategoryID      *uint
	Search          string
	Skip            int
	Limit           int
}

func (r *ItemRepository) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Categories").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) ListFiltered(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	if filter.Limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}

	query := r.db.WithContext(ctx).Model(&model.Item{}).Preload("Categories")

	if len(filter.IDs) > 0 {
		query = query.Where("items.id IN ?", filter.IDs)
	}
	if filter.TransactionType != "" {
		query = query.Where("items.transaction_type = ?", filter.TransactionType)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN item_categories ON item_categories.item_id = items.id").
			Where("item_categories.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(items.title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []model.Item
	err := query.
		Order("items.created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// CreateItem persists the item and links every category id that resolves to
// an existing category. Unresolved ids are dropped rather than rejected, so
// a payload referencing a deleted category still creates the item.
func (r *ItemRepository) CreateItem(ctx context.Context, in dto.ItemCreate) (*model.Item, error) {
	now := time.Now().UTC()
	item := &model.Item{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		Condition:       in.Condition,
		TransactionType: in.TransactionType,
		Price:           in.Price,
		AddressID:       in.AddressID,
		ImageURLs:       model.ImageURLs(in.ImageURLs),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		if len(in.CategoryIDs) == 0 {
			return nil
		}

		categories, err := resolveCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}

		return tx.Model(item).Association("Categories").Append(&categories)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateWithLock is the compare-and-swap update. The client supplies the
// updated_at value it last saw; an exact-equality mismatch means another
// writer got there first and the whole update is rejected, row untouched.
// Losers retry with freshly fetched state, nothing is merged.
func (r *ItemRepository) UpdateWithLock(
	ctx context.Context,
	id string,
	in dto.ItemUpdate,
	expected time.Time,
) (*model.Item, error) {
	var updated *model.Item

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.Item
		err := tx.First(&item, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrItemNotFound
		}
		if err != nil {
			return err
		}

		if !item.UpdatedAt.UTC().Equal(expected.UTC()) {
			return apperrors.ErrPreconditionFailed
		}

		fields := in.Fields()
		fields["updated_at"] = time.Now().UTC()

		// Guarded write: the WHERE clause re-checks the token so a writer
		// that slipped in between the read and this statement still loses.
		res := tx.Model(&model.Item{}).
			Where("id = ? AND updated_at = ?", id, item.UpdatedAt).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrPreconditionFailed
		}

		if in.CategoryIDs != nil {
			categories := []model.Category{}
			if len(*in.CategoryIDs) > 0 {
				resolved, err := resolveCategories(tx, *in.CategoryIDs)
				if err != nil {
					return err
				}
				categories = resolved
			}
			if err := tx.Model(&item).Association("Categories").Replace(&categories); err != nil {
				return err
			}
		}

		var fresh model.Item
		if err := tx.Preload("Categories").First(&fresh, "id = ?", id).Error; err != nil {
			return err
		}
		updated = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteItem removes the item and its category links. Returns nil for an
// absent id so a second delete reports not-found instead of failing.
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	existing, err := r.GetItem(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(existing).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Item{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// resolveCategories keeps only the ids that exist; unknown ids are dropped.
func resolveCategories(tx *gorm.DB, ids []uint) ([]model.Category, error) {
	var categories []model.Category
	err := tx.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

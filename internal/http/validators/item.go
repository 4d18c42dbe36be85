package validators

import (
	"math"
	"strings"

	dto "item-service.com/item-service/internal/data_models"
	apperrors "item-service.com/item-service/internal/errors"
)

func ValidateItemCreate(r *dto.ItemCreate) error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ErrTitleRequired
	}
	if !r.Condition.Valid() {
		return apperrors.ErrInvalidCondition
	}
	if !r.TransactionType.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if !validPrice(r.Price) {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

func ValidateItemUpdate(r *dto.ItemUpdate) error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return apperrors.ErrTitleRequired
	}
	if r.Condition != nil && !r.Condition.Valid() {
		return apperrors.ErrInvalidCondition
	}
	if r.TransactionType != nil && !r.TransactionType.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if r.Price != nil && !validPrice(*r.Price) {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

// validPrice accepts non-negative values with at most 2 fractional digits.
func validPrice(p float64) bool {
	if p < 0 {
		return false
	}
	cents := p * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

package models

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidFeeRange covers both bad bounds (min >= max, negative
	// values) and overlap with an existing range.
	ErrInvalidFeeRange = errors.New("invalid fee range")

	ErrFeeRangeNotFound = errors.New("fee range not found")
)

// FeeRange maps the half-open amount interval [MinAmount, MaxAmount) to a
// flat fee. A nil MaxAmount means the range is unbounded above; pairwise
// non-overlap guarantees there is at most one such range and that it sits on
// top.
type FeeRange struct {
	ID        uint `gorm:"primaryKey"`
	MinAmount float64
	MaxAmount *float64
	FeeAmount float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reports whether amount falls in [MinAmount, MaxAmount).
func (f *FeeRange) Contains(amount float64) bool {
	return f.MinAmount <= amount && (f.MaxAmount == nil || amount < *f.MaxAmount)
}

// overlaps checks intersection of two half-open intervals, nil read as +inf.
func (f *FeeRange) overlaps(min float64, max *float64) bool {
	if f.MaxAmount != nil && min >= *f.MaxAmount {
		return false
	}
	if max != nil && f.MinAmount >= *max {
		return false
	}
	return true
}

// GetFeeForAmount returns the fee of the unique range containing amount.
// A miss is logged and answered with a zero fee so the pricing path keeps
// working even when the configured tiers leave a gap.
func GetFeeForAmount(db *gorm.DB, amount float64) float64 {
	var fr FeeRange
	err := db.Where("min_amount <= ? AND (max_amount > ? OR max_amount IS NULL)", amount, amount).
		First(&fr).Error
	if err != nil {
		logrus.Errorf("no fee range found for amount %.2f", amount)
		return 0
	}
	return fr.FeeAmount
}

// GetAllFeeRanges returns the ranges ordered by min_amount ascending; the
// admin edit/delete-by-index flows depend on this ordering.
func GetAllFeeRanges(db *gorm.DB) ([]FeeRange, error) {
	var ranges []FeeRange
	err := db.Order("min_amount asc").Find(&ranges).Error
	return ranges, err
}

func validateFeeBounds(min float64, max *float64, fee float64) error {
	if min < 0 || fee < 0 {
		return ErrInvalidFeeRange
	}
	if max != nil && *max <= min {
		return ErrInvalidFeeRange
	}
	return nil
}

// AddFeeRange inserts a new range after checking it against every existing
// one inside a single transaction. Returns ErrInvalidFeeRange on overlap or
// bad bounds.
func AddFeeRange(db *gorm.DB, min float64, max *float64, fee float64) error {
	if err := validateFeeBounds(min, max, fee); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		ranges, err := GetAllFeeRanges(tx)
		if err != nil {
			return err
		}
		for i := range ranges {
			if ranges[i].overlaps(min, max) {
				logrus.Errorf("fee range overlaps with existing range id=%d", ranges[i].ID)
				return ErrInvalidFeeRange
			}
		}
		return tx.Create(&FeeRange{MinAmount: min, MaxAmount: max, FeeAmount: fee}).Error
	})
}

// UpdateFeeRange rewrites an existing range, running the same overlap check
// but excluding the row being updated.
func UpdateFeeRange(db *gorm.DB, id uint, min float64, max *float64, fee float64) error {
	if err := validateFeeBounds(min, max, fee); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var fr FeeRange
		if err := tx.First(&fr, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeeRangeNotFound
			}
			return err
		}
		ranges, err := GetAllFeeRanges(tx)
		if err != nil {
			return err
		}
		for i := range ranges {
			if ranges[i].ID == id {
				continue
			}
			if ranges[i].overlaps(min, max) {
				logrus.Errorf("updated fee range overlaps with existing range id=%d", ranges[i].ID)
				return ErrInvalidFeeRange
			}
		}
		fr.MinAmount = min
		fr.MaxAmount = max
		fr.FeeAmount = fee
		return tx.Save(&fr).Error
	})
}

// DeleteFeeRange removes a range by id.
func DeleteFeeRange(db *gorm.DB, id uint) error {
	res := db.Delete(&FeeRange{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFeeRangeNotFound
	}
	return nil
}

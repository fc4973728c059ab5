package models

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"usdt-calculator-bot/calc"
)

const (
	DefaultBuyFormula  = "{usdt_amount} * {rate} + {fee}"
	DefaultSellFormula = "{usdt_amount} * {rate} - {fee}"
)

var ErrInvalidFormula = errors.New("invalid formula")

var formulaPlaceholders = []string{"{usdt_amount}", "{rate}", "{fee}"}

// CustomFormula is an admin-supplied pricing expression for one direction.
// At most one formula per direction is active at a time.
type CustomFormula struct {
	ID        uint   `gorm:"primaryKey"`
	Type      string `gorm:"size:10;index"` // buy or sell
	Formula   string `gorm:"type:text"`
	IsActive  bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultFormula returns the built-in formula for a direction.
func DefaultFormula(formulaType string) string {
	if formulaType == RateTypeSell {
		return DefaultSellFormula
	}
	return DefaultBuyFormula
}

// EvaluateFormula substitutes the three placeholders with literal values and
// runs the arithmetic evaluator.
func EvaluateFormula(formula string, usdtAmount, rate, fee float64) (float64, error) {
	expr := strings.NewReplacer(
		"{usdt_amount}", strconv.FormatFloat(usdtAmount, 'f', -1, 64),
		"{rate}", strconv.FormatFloat(rate, 'f', -1, 64),
		"{fee}", strconv.FormatFloat(fee, 'f', -1, 64),
	).Replace(formula)
	return calc.Eval(expr)
}

// IsValidFormula reports whether the expression names all three placeholders
// and evaluates cleanly with sample values substituted.
func IsValidFormula(formula string) bool {
	for _, ph := range formulaPlaceholders {
		if !strings.Contains(formula, ph) {
			return false
		}
	}
	if _, err := EvaluateFormula(formula, 10, 16000, 5000); err != nil {
		logrus.Errorf("invalid formula %q: %v", formula, err)
		return false
	}
	return true
}

// GetActiveFormula returns the active formula for a direction, or nil when
// none is active.
func GetActiveFormula(db *gorm.DB, formulaType string) (*CustomFormula, error) {
	var f CustomFormula
	err := db.Where("type = ? AND is_active = ?", formulaType, true).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateCustomFormula validates and activates a formula for a direction,
// deactivating whichever was active before. An identical stored formula is
// reactivated instead of duplicated.
func UpdateCustomFormula(db *gorm.DB, formulaType, formula string) error {
	if !IsValidFormula(formula) {
		return ErrInvalidFormula
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&CustomFormula{}).
			Where("type = ?", formulaType).
			Update("is_active", false).Error; err != nil {
			return err
		}

		var existing CustomFormula
		err := tx.Where("type = ? AND formula = ?", formulaType, formula).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("is_active", true).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&CustomFormula{Type: formulaType, Formula: formula, IsActive: true}).Error
	})
	if err != nil {
		logrus.Errorf("error updating %s formula: %v", formulaType, err)
	}
	return err
}

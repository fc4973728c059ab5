package models

import (
	"errors"
	"testing"
)

func TestIsValidFormula(t *testing.T) {
	tests := []struct {
		formula string
		want    bool
	}{
		{"{usdt_amount} * {rate} + {fee}", true},
		{"{usdt_amount} * {rate} - {fee}", true},
		{"({usdt_amount} * {rate} + {fee}) * 1.01", true},
		{"{usdt_amount} ** 2 + {rate} + {fee}", true},
		{"{rate} + {fee}", false},            // missing placeholder
		{"{usdt_amount} * {rate}", false},    // missing placeholder
		{"", false},                          // empty
		{"{usdt_amount} + {rate} + {fee} +", false}, // trailing operator
		{"{usdt_amount} * {rate} / ({fee} - {fee})", false}, // division by zero at sample values
	}
	for _, tt := range tests {
		if got := IsValidFormula(tt.formula); got != tt.want {
			t.Errorf("IsValidFormula(%q) = %v, want %v", tt.formula, got, tt.want)
		}
	}
}

func TestEvaluateFormula(t *testing.T) {
	got, err := EvaluateFormula(DefaultBuyFormula, 10, 16400, 5000)
	if err != nil {
		t.Fatalf("evaluate buy formula: %v", err)
	}
	if !almostEqual(got, 169000) {
		t.Fatalf("buy formula = %v, want 169000", got)
	}

	got, err = EvaluateFormula(DefaultSellFormula, 10, 16100, 5000)
	if err != nil {
		t.Fatalf("evaluate sell formula: %v", err)
	}
	if !almostEqual(got, 156000) {
		t.Fatalf("sell formula = %v, want 156000", got)
	}
}

func TestDefaultFormula(t *testing.T) {
	if got := DefaultFormula(RateTypeBuy); got != DefaultBuyFormula {
		t.Errorf("DefaultFormula(buy) = %q", got)
	}
	if got := DefaultFormula(RateTypeSell); got != DefaultSellFormula {
		t.Errorf("DefaultFormula(sell) = %q", got)
	}
}

func TestUpdateCustomFormulaRejectsInvalid(t *testing.T) {
	db := newTestDB(t)

	if err := UpdateCustomFormula(db, RateTypeBuy, "{rate} + {fee}"); !errors.Is(err, ErrInvalidFormula) {
		t.Fatalf("err = %v, want ErrInvalidFormula", err)
	}
	f, err := GetActiveFormula(db, RateTypeBuy)
	if err != nil {
		t.Fatalf("GetActiveFormula: %v", err)
	}
	if f != nil {
		t.Fatalf("invalid formula was stored: %+v", f)
	}
}

func TestUpdateCustomFormulaActivation(t *testing.T) {
	db := newTestDB(t)

	first := "{usdt_amount} * {rate} + {fee}"
	second := "{usdt_amount} * {rate} + {fee} * 2"

	if err := UpdateCustomFormula(db, RateTypeBuy, first); err != nil {
		t.Fatalf("set first formula: %v", err)
	}
	if err := UpdateCustomFormula(db, RateTypeBuy, second); err != nil {
		t.Fatalf("set second formula: %v", err)
	}

	active, err := GetActiveFormula(db, RateTypeBuy)
	if err != nil {
		t.Fatalf("GetActiveFormula: %v", err)
	}
	if active == nil || active.Formula != second {
		t.Fatalf("active = %+v, want %q", active, second)
	}

	var activeCount int64
	if err := db.Model(&CustomFormula{}).
		Where("type = ? AND is_active = ?", RateTypeBuy, true).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count active: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("active buy formulas = %d, want 1", activeCount)
	}

	// Re-activating a known formula must not create a duplicate row.
	if err := UpdateCustomFormula(db, RateTypeBuy, first); err != nil {
		t.Fatalf("reactivate first formula: %v", err)
	}
	var total int64
	if err := db.Model(&CustomFormula{}).
		Where("type = ?", RateTypeBuy).
		Count(&total).Error; err != nil {
		t.Fatalf("count all: %v", err)
	}
	if total != 2 {
		t.Fatalf("stored buy formulas = %d, want 2", total)
	}
	active, err = GetActiveFormula(db, RateTypeBuy)
	if err != nil {
		t.Fatalf("GetActiveFormula: %v", err)
	}
	if active == nil || active.Formula != first {
		t.Fatalf("active = %+v, want %q", active, first)
	}
}

func TestUpdateCustomFormulaPerDirection(t *testing.T) {
	db := newTestDB(t)

	buy := "{usdt_amount} * {rate} + {fee}"
	sell := "{usdt_amount} * {rate} - {fee}"

	if err := UpdateCustomFormula(db, RateTypeBuy, buy); err != nil {
		t.Fatalf("set buy formula: %v", err)
	}
	if err := UpdateCustomFormula(db, RateTypeSell, sell); err != nil {
		t.Fatalf("set sell formula: %v", err)
	}

	f, err := GetActiveFormula(db, RateTypeBuy)
	if err != nil || f == nil || f.Formula != buy {
		t.Fatalf("active buy = %+v, err %v", f, err)
	}
	f, err = GetActiveFormula(db, RateTypeSell)
	if err != nil || f == nil || f.Formula != sell {
		t.Fatalf("active sell = %+v, err %v", f, err)
	}
}

func TestGetActiveFormulaNoneActive(t *testing.T) {
	db := newTestDB(t)

	f, err := GetActiveFormula(db, RateTypeSell)
	if err != nil {
		t.Fatalf("GetActiveFormula: %v", err)
	}
	if f != nil {
		t.Fatalf("got %+v, want nil", f)
	}
}

package models

import "testing"

func TestInitDefaultDataIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := InitDefaultData(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := InitDefaultData(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var rates, ranges, formulas int64
	if err := db.Model(&Rate{}).Count(&rates).Error; err != nil {
		t.Fatalf("count rates: %v", err)
	}
	if err := db.Model(&FeeRange{}).Count(&ranges).Error; err != nil {
		t.Fatalf("count fee ranges: %v", err)
	}
	if err := db.Model(&CustomFormula{}).Count(&formulas).Error; err != nil {
		t.Fatalf("count formulas: %v", err)
	}

	if rates != 2 {
		t.Errorf("rates = %d, want 2", rates)
	}
	if ranges != 7 {
		t.Errorf("fee ranges = %d, want 7", ranges)
	}
	if formulas != 2 {
		t.Errorf("formulas = %d, want 2", formulas)
	}
}

func TestInitDefaultDataSeedsWorkingPipeline(t *testing.T) {
	db := newTestDB(t)

	if err := InitDefaultData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := CalculateTransaction(db, 1, RateTypeBuy)
	if err != nil {
		t.Fatalf("calculate on seeded db: %v", err)
	}
	// 1 * 16400 + 3000 from the lowest seeded tier.
	if !almostEqual(result.TotalAmount, 19400) {
		t.Errorf("total = %v, want 19400", result.TotalAmount)
	}
}

package models

import (
	"gorm.io/gorm"
)

// InitDefaultData seeds rates, fee tiers and formulas when the corresponding
// tables are empty. Running it again is a no-op.
func InitDefaultData(db *gorm.DB) error {
	var count int64

	if err := db.Model(&Rate{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		rates := []Rate{
			{Type: RateTypeBuy, Value: 16400},
			{Type: RateTypeSell, Value: 16100},
		}
		if err := db.Create(&rates).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&FeeRange{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		bound := func(v float64) *float64 { return &v }
		ranges := []FeeRange{
			{MinAmount: 0, MaxAmount: bound(25000), FeeAmount: 3000},
			{MinAmount: 26000, MaxAmount: bound(100000), FeeAmount: 5000},
			{MinAmount: 101000, MaxAmount: bound(150000), FeeAmount: 6000},
			{MinAmount: 151000, MaxAmount: bound(200000), FeeAmount: 7000},
			{MinAmount: 201000, MaxAmount: bound(500000), FeeAmount: 10000},
			{MinAmount: 501000, MaxAmount: bound(5000000), FeeAmount: 17000},
			{MinAmount: 5001000, MaxAmount: nil, FeeAmount: 25000},
		}
		if err := db.Create(&ranges).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&CustomFormula{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		formulas := []CustomFormula{
			{Type: RateTypeBuy, Formula: DefaultBuyFormula, IsActive: true},
			{Type: RateTypeSell, Formula: DefaultSellFormula, IsActive: true},
		}
		if err := db.Create(&formulas).Error; err != nil {
			return err
		}
	}

	return nil
}

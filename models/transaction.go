package models

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Transaction is one priced buy or sell. The log is append-only: rows are
// never updated or deleted. Profit is recorded for sell transactions only.
type Transaction struct {
	ID          uint   `gorm:"primaryKey"`
	Type        string `gorm:"size:10;index"` // buy or sell
	USDTAmount  float64
	Rate        float64
	Fee         float64
	TotalAmount float64
	Profit      *float64
	CreatedAt   time.Time
}

// TransactionResult is the priced outcome handed back to the presentation
// layer. IDRAmount is the fiat leg the fee tier was resolved on.
type TransactionResult struct {
	USDTAmount  float64
	IDRAmount   float64
	Rate        float64
	Fee         float64
	TotalAmount float64
	Profit      *float64
}

// CalculateTransaction prices a buy or sell of usdtAmount USDT at the current
// rate, resolves the fee tier on the IDR value, applies the active formula
// (or the default) and appends the transaction record.
func CalculateTransaction(db *gorm.DB, usdtAmount float64, txType string) (*TransactionResult, error) {
	rate, err := GetRate(db, txType)
	if err != nil {
		return nil, err
	}
	idrAmount := usdtAmount * rate.Value
	return priceAndRecord(db, usdtAmount, idrAmount, rate.Value, txType)
}

// CalculateTransactionFromIDR prices a buy or sell denominated in IDR: the
// USDT amount is derived from the rate and the fee tier is resolved on the
// IDR amount itself. From there the pipeline is identical.
func CalculateTransactionFromIDR(db *gorm.DB, idrAmount float64, txType string) (*TransactionResult, error) {
	rate, err := GetRate(db, txType)
	if err != nil {
		return nil, err
	}
	usdtAmount := idrAmount / rate.Value
	return priceAndRecord(db, usdtAmount, idrAmount, rate.Value, txType)
}

func priceAndRecord(db *gorm.DB, usdtAmount, idrAmount, rate float64, txType string) (*TransactionResult, error) {
	fee := GetFeeForAmount(db, idrAmount)

	total := defaultTotal(usdtAmount, rate, fee, txType)
	formula, err := GetActiveFormula(db, txType)
	if err != nil {
		logrus.Errorf("error loading active %s formula: %v", txType, err)
	} else if formula != nil {
		v, evalErr := EvaluateFormula(formula.Formula, usdtAmount, rate, fee)
		if evalErr != nil {
			logrus.Errorf("error evaluating custom %s formula: %v", txType, evalErr)
		} else {
			total = v
		}
	}

	var profit *float64
	if txType == RateTypeSell {
		if buyRate, err := GetRate(db, RateTypeBuy); err == nil {
			p := (buyRate.Value-rate)*usdtAmount + fee
			profit = &p
		}
	}

	record := Transaction{
		Type:        txType,
		USDTAmount:  usdtAmount,
		Rate:        rate,
		Fee:         fee,
		TotalAmount: total,
		Profit:      profit,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	return &TransactionResult{
		USDTAmount:  usdtAmount,
		IDRAmount:   idrAmount,
		Rate:        rate,
		Fee:         fee,
		TotalAmount: total,
		Profit:      profit,
	}, nil
}

func defaultTotal(usdtAmount, rate, fee float64, txType string) float64 {
	base := usdtAmount * rate
	if txType == RateTypeSell {
		return base - fee
	}
	return base + fee
}

// ProfitStatistics summarizes the transaction log.
type ProfitStatistics struct {
	TotalProfit       float64
	TotalTransactions int64
	TotalBuy          int64
	TotalSell         int64
	TotalUSDTBought   float64
	TotalUSDTSold     float64
}

// GetProfitStatistics folds the transaction log into summary counters.
// Missing sums read as zero.
func GetProfitStatistics(db *gorm.DB) (*ProfitStatistics, error) {
	var s ProfitStatistics

	if err := db.Model(&Transaction{}).
		Where("type = ? AND profit IS NOT NULL", RateTypeSell).
		Select("COALESCE(SUM(profit), 0)").
		Scan(&s.TotalProfit).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&Transaction{}).Count(&s.TotalTransactions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Transaction{}).
		Where("type = ?", RateTypeBuy).
		Count(&s.TotalBuy).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Transaction{}).
		Where("type = ?", RateTypeSell).
		Count(&s.TotalSell).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&Transaction{}).
		Where("type = ?", RateTypeBuy).
		Select("COALESCE(SUM(usdt_amount), 0)").
		Scan(&s.TotalUSDTBought).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Transaction{}).
		Where("type = ?", RateTypeSell).
		Select("COALESCE(SUM(usdt_amount), 0)").
		Scan(&s.TotalUSDTSold).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

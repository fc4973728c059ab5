package models

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	RateTypeBuy  = "buy"
	RateTypeSell = "sell"
)

// ErrRateUnavailable is returned when no rate row exists for a direction.
var ErrRateUnavailable = errors.New("rate unavailable")

// Rate holds the current unit price for one direction. There is exactly one
// row per direction; it only changes when an admin sets a new value.
type Rate struct {
	ID        uint   `gorm:"primaryKey"`
	Type      string `gorm:"size:10;uniqueIndex"` // buy or sell
	Value     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

const rateCacheTTL = 5 * time.Minute

// RateCache keeps recently read rates in memory for a fixed TTL. Writes do
// NOT invalidate it: after a successful UpdateRate the caller must call
// ClearRateCache, otherwise reads can serve the old value until the TTL runs
// out.
type RateCache struct {
	mu      sync.RWMutex
	entries map[string]rateEntry
	ttl     time.Duration
}

type rateEntry struct {
	rate     Rate
	cachedAt time.Time
}

func NewRateCache(ttl time.Duration) *RateCache {
	return &RateCache{
		entries: make(map[string]rateEntry),
		ttl:     ttl,
	}
}

func (c *RateCache) Get(rateType string) (Rate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[rateType]
	if !ok || time.Since(e.cachedAt) >= c.ttl {
		return Rate{}, false
	}
	return e.rate, true
}

func (c *RateCache) Set(rate Rate) {
	c.mu.Lock()
	c.entries[rate.Type] = rateEntry{rate: rate, cachedAt: time.Now()}
	c.mu.Unlock()
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]rateEntry)
	c.mu.Unlock()
}

var rateCache = NewRateCache(rateCacheTTL)

// GetRate returns the current rate for a direction, serving from the cache
// while the entry is fresh and reading through to the database otherwise.
func GetRate(db *gorm.DB, rateType string) (*Rate, error) {
	if r, ok := rateCache.Get(rateType); ok {
		return &r, nil
	}

	var rate Rate
	err := db.Where("type = ?", rateType).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.Errorf("no %s rate found in database", rateType)
		return nil, ErrRateUnavailable
	}
	if err != nil {
		return nil, err
	}

	rateCache.Set(rate)
	return &rate, nil
}

// UpdateRate writes the new value through to the database, creating the row
// on first use. The cache is left untouched; see ClearRateCache.
func UpdateRate(db *gorm.DB, rateType string, value float64) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var rate Rate
		err := tx.Where("type = ?", rateType).First(&rate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&Rate{Type: rateType, Value: value}).Error
		}
		if err != nil {
			return err
		}
		rate.Value = value
		return tx.Save(&rate).Error
	})
	if err != nil {
		logrus.Errorf("error updating %s rate: %v", rateType, err)
	}
	return err
}

// ClearRateCache drops every cached rate. Call it after a successful rate
// change so the next read sees the new value.
func ClearRateCache() {
	rateCache.Clear()
}

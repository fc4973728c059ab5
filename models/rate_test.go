package models

import (
	"errors"
	"testing"
	"time"
)

func TestGetRateMissing(t *testing.T) {
	db := newTestDB(t)

	if _, err := GetRate(db, RateTypeBuy); !errors.Is(err, ErrRateUnavailable) {
		t.Fatalf("GetRate on empty db err = %v, want ErrRateUnavailable", err)
	}
}

func TestUpdateRateRoundTrip(t *testing.T) {
	db := newTestDB(t)

	if err := UpdateRate(db, RateTypeBuy, 16400); err != nil {
		t.Fatalf("create buy rate: %v", err)
	}
	rate, err := GetRate(db, RateTypeBuy)
	if err != nil {
		t.Fatalf("read buy rate: %v", err)
	}
	if rate.Value != 16400 {
		t.Fatalf("buy rate = %v, want 16400", rate.Value)
	}
	if rate.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt not set")
	}

	// Second update overwrites the single row for the direction.
	if err := UpdateRate(db, RateTypeBuy, 16500); err != nil {
		t.Fatalf("update buy rate: %v", err)
	}
	ClearRateCache()
	rate, err = GetRate(db, RateTypeBuy)
	if err != nil {
		t.Fatalf("re-read buy rate: %v", err)
	}
	if rate.Value != 16500 {
		t.Fatalf("buy rate after update = %v, want 16500", rate.Value)
	}

	var count int64
	if err := db.Model(&Rate{}).Where("type = ?", RateTypeBuy).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("buy rate rows = %d, want 1", count)
	}
}

func TestRateCacheServesStaleUntilCleared(t *testing.T) {
	db := newTestDB(t)

	if err := UpdateRate(db, RateTypeSell, 16100); err != nil {
		t.Fatalf("create sell rate: %v", err)
	}
	rate, err := GetRate(db, RateTypeSell)
	if err != nil {
		t.Fatalf("read sell rate: %v", err)
	}
	if rate.Value != 16100 {
		t.Fatalf("sell rate = %v, want 16100", rate.Value)
	}

	// Writes do not invalidate: the cached value survives the update.
	if err := UpdateRate(db, RateTypeSell, 16200); err != nil {
		t.Fatalf("update sell rate: %v", err)
	}
	rate, err = GetRate(db, RateTypeSell)
	if err != nil {
		t.Fatalf("read cached sell rate: %v", err)
	}
	if rate.Value != 16100 {
		t.Fatalf("cached sell rate = %v, want stale 16100", rate.Value)
	}

	ClearRateCache()
	rate, err = GetRate(db, RateTypeSell)
	if err != nil {
		t.Fatalf("read sell rate after clear: %v", err)
	}
	if rate.Value != 16200 {
		t.Fatalf("sell rate after clear = %v, want 16200", rate.Value)
	}
}

func TestRateCacheTTLExpiry(t *testing.T) {
	c := NewRateCache(10 * time.Millisecond)
	c.Set(Rate{Type: RateTypeBuy, Value: 16400})

	if r, ok := c.Get(RateTypeBuy); !ok || r.Value != 16400 {
		t.Fatalf("fresh Get = (%v, %v), want (16400, true)", r.Value, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(RateTypeBuy); ok {
		t.Fatal("expired entry still served")
	}
}

func TestRateCacheClear(t *testing.T) {
	c := NewRateCache(time.Minute)
	c.Set(Rate{Type: RateTypeBuy, Value: 16400})
	c.Set(Rate{Type: RateTypeSell, Value: 16100})

	c.Clear()
	if _, ok := c.Get(RateTypeBuy); ok {
		t.Fatal("buy entry survived Clear")
	}
	if _, ok := c.Get(RateTypeSell); ok {
		t.Fatal("sell entry survived Clear")
	}
}

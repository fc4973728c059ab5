package models

import (
	"errors"
	"testing"
)

func TestAddFeeRangeRejectsOverlap(t *testing.T) {
	db := newTestDB(t)

	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add first range: %v", err)
	}

	tests := []struct {
		name string
		min  float64
		max  *float64
	}{
		{"straddles existing top", 500, ptr(1500)},
		{"inside existing", 200, ptr(800)},
		{"covers existing", 0, ptr(2000)},
		{"identical", 0, ptr(1000)},
		{"unbounded from inside", 500, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := AddFeeRange(db, tt.min, tt.max, 200); !errors.Is(err, ErrInvalidFeeRange) {
				t.Fatalf("AddFeeRange(%v, %v) err = %v, want ErrInvalidFeeRange", tt.min, tt.max, err)
			}
		})
	}
}

func TestAddFeeRangeAdjacentRangesAllowed(t *testing.T) {
	db := newTestDB(t)

	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add [0, 1000): %v", err)
	}
	// Half-open intervals: 1000 belongs to the next range only.
	if err := AddFeeRange(db, 1000, ptr(2000), 200); err != nil {
		t.Fatalf("add [1000, 2000): %v", err)
	}
	if err := AddFeeRange(db, 2000, nil, 300); err != nil {
		t.Fatalf("add [2000, inf): %v", err)
	}

	ranges, err := GetAllFeeRanges(db)
	if err != nil {
		t.Fatalf("GetAllFeeRanges: %v", err)
	}
	if len(ranges) != 3 {
		t.Fatalf("got %d ranges, want 3", len(ranges))
	}
}

func TestAddFeeRangeRejectsBadBounds(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name string
		min  float64
		max  *float64
		fee  float64
	}{
		{"negative min", -1, ptr(1000), 100},
		{"max equals min", 1000, ptr(1000), 100},
		{"max below min", 1000, ptr(500), 100},
		{"negative fee", 0, ptr(1000), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := AddFeeRange(db, tt.min, tt.max, tt.fee); !errors.Is(err, ErrInvalidFeeRange) {
				t.Fatalf("err = %v, want ErrInvalidFeeRange", err)
			}
		})
	}
}

func TestGetFeeForAmountBoundaries(t *testing.T) {
	db := newTestDB(t)

	mustAdd := func(min float64, max *float64, fee float64) {
		t.Helper()
		if err := AddFeeRange(db, min, max, fee); err != nil {
			t.Fatalf("AddFeeRange(%v, %v, %v): %v", min, max, fee, err)
		}
	}
	mustAdd(0, ptr(25000), 3000)
	mustAdd(25000, ptr(100000), 5000)
	mustAdd(100000, nil, 10000)

	tests := []struct {
		amount float64
		want   float64
	}{
		{0, 3000},
		{24999.99, 3000},
		{25000, 5000}, // min inclusive, previous max exclusive
		{99999, 5000},
		{100000, 10000},
		{5_000_000, 10000}, // unbounded top
	}
	for _, tt := range tests {
		if got := GetFeeForAmount(db, tt.amount); got != tt.want {
			t.Errorf("GetFeeForAmount(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

func TestGetFeeForAmountGapReturnsZero(t *testing.T) {
	db := newTestDB(t)

	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add range: %v", err)
	}

	if got := GetFeeForAmount(db, 5000); got != 0 {
		t.Fatalf("GetFeeForAmount in gap = %v, want 0", got)
	}
}

func TestUpdateFeeRange(t *testing.T) {
	db := newTestDB(t)

	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add [0, 1000): %v", err)
	}
	if err := AddFeeRange(db, 1000, ptr(2000), 200); err != nil {
		t.Fatalf("add [1000, 2000): %v", err)
	}
	ranges, err := GetAllFeeRanges(db)
	if err != nil {
		t.Fatalf("GetAllFeeRanges: %v", err)
	}
	first := ranges[0]

	// The updated row is excluded from its own overlap check.
	if err := UpdateFeeRange(db, first.ID, 0, ptr(500), 150); err != nil {
		t.Fatalf("shrink own range: %v", err)
	}
	// But overlap with a sibling is still rejected.
	if err := UpdateFeeRange(db, first.ID, 0, ptr(1500), 150); !errors.Is(err, ErrInvalidFeeRange) {
		t.Fatalf("overlap with sibling err = %v, want ErrInvalidFeeRange", err)
	}

	if err := UpdateFeeRange(db, 9999, 0, ptr(500), 150); !errors.Is(err, ErrFeeRangeNotFound) {
		t.Fatalf("update missing id err = %v, want ErrFeeRangeNotFound", err)
	}

	if got := GetFeeForAmount(db, 100); got != 150 {
		t.Fatalf("fee after update = %v, want 150", got)
	}
}

func TestDeleteFeeRange(t *testing.T) {
	db := newTestDB(t)

	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add range: %v", err)
	}
	ranges, err := GetAllFeeRanges(db)
	if err != nil {
		t.Fatalf("GetAllFeeRanges: %v", err)
	}

	if err := DeleteFeeRange(db, ranges[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteFeeRange(db, ranges[0].ID); !errors.Is(err, ErrFeeRangeNotFound) {
		t.Fatalf("double delete err = %v, want ErrFeeRangeNotFound", err)
	}
}

func TestGetAllFeeRangesOrdering(t *testing.T) {
	db := newTestDB(t)

	// Insert out of order; the list must come back min-ascending.
	if err := AddFeeRange(db, 2000, nil, 300); err != nil {
		t.Fatalf("add [2000, inf): %v", err)
	}
	if err := AddFeeRange(db, 0, ptr(1000), 100); err != nil {
		t.Fatalf("add [0, 1000): %v", err)
	}
	if err := AddFeeRange(db, 1000, ptr(2000), 200); err != nil {
		t.Fatalf("add [1000, 2000): %v", err)
	}

	ranges, err := GetAllFeeRanges(db)
	if err != nil {
		t.Fatalf("GetAllFeeRanges: %v", err)
	}
	want := []float64{0, 1000, 2000}
	for i, min := range want {
		if ranges[i].MinAmount != min {
			t.Errorf("ranges[%d].MinAmount = %v, want %v", i, ranges[i].MinAmount, min)
		}
	}
}

func TestFeeRangeContains(t *testing.T) {
	bounded := FeeRange{MinAmount: 100, MaxAmount: ptr(200)}
	unbounded := FeeRange{MinAmount: 200}

	tests := []struct {
		fr     *FeeRange
		amount float64
		want   bool
	}{
		{&bounded, 100, true},
		{&bounded, 199.99, true},
		{&bounded, 200, false},
		{&bounded, 99, false},
		{&unbounded, 200, true},
		{&unbounded, 1e12, true},
		{&unbounded, 199, false},
	}
	for _, tt := range tests {
		if got := tt.fr.Contains(tt.amount); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}
}

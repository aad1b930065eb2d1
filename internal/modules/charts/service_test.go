package charts

import (
	"testing"
	"time"

	"github.com/avarre/pea-tracker/internal/modules/marketdata"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDays int // Expected days before now (approximate), -1 for empty
	}{
		{name: "1 month", input: "1M", wantDays: 30},
		{name: "3 months", input: "3M", wantDays: 90},
		{name: "6 months", input: "6M", wantDays: 180},
		{name: "1 year", input: "1Y", wantDays: 365},
		{name: "5 years", input: "5Y", wantDays: 365 * 5},
		{name: "10 years", input: "10Y", wantDays: 365 * 10},
		{name: "all time", input: "all", wantDays: -1},
		{name: "empty string", input: "", wantDays: -1},
		{name: "invalid range", input: "invalid", wantDays: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseDateRange(tt.input)

			if tt.wantDays == -1 {
				if result != "" {
					t.Errorf("parseDateRange(%q) = %q, want empty string", tt.input, result)
				}
				return
			}

			resultDate, err := time.Parse("2006-01-02", result)
			if err != nil {
				t.Errorf("parseDateRange(%q) returned invalid date format: %q", tt.input, result)
				return
			}

			// Wider tolerance for month-based ranges due to varying
			// month lengths.
			tolerance := 5.0
			expectedDate := time.Now().AddDate(0, 0, -tt.wantDays)
			daysDiff := resultDate.Sub(expectedDate).Hours() / 24

			if daysDiff < -tolerance || daysDiff > tolerance {
				t.Errorf("parseDateRange(%q) = %q, expected ~%d days ago, got %.0f days difference",
					tt.input, result, tt.wantDays, daysDiff)
			}
		})
	}
}

func TestFilterByStartDate(t *testing.T) {
	prices := []marketdata.DailyPrice{
		{Date: "2026-01-02", Close: 100},
		{Date: "2026-02-02", Close: 102},
		{Date: "2026-03-02", Close: 104},
	}

	t.Run("no lower bound keeps everything", func(t *testing.T) {
		got := filterByStartDate(prices, "")
		if len(got) != 3 {
			t.Errorf("expected 3 prices, got %d", len(got))
		}
	})

	t.Run("filters dates before start", func(t *testing.T) {
		got := filterByStartDate(prices, "2026-02-01")
		if len(got) != 2 {
			t.Fatalf("expected 2 prices, got %d", len(got))
		}
		if got[0].Date != "2026-02-02" {
			t.Errorf("expected first date 2026-02-02, got %s", got[0].Date)
		}
	})

	t.Run("start date itself is included", func(t *testing.T) {
		got := filterByStartDate(prices, "2026-03-02")
		if len(got) != 1 || got[0].Date != "2026-03-02" {
			t.Errorf("expected exactly the boundary date, got %v", got)
		}
	})
}

func TestImageCacheExpiry(t *testing.T) {
	cache := newImageCache()

	cache.set("key", []byte{1, 2, 3})
	img, ok := cache.get("key")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(img) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(img))
	}

	// Returned slice is a copy; mutating it must not corrupt the cache.
	img[0] = 99
	again, _ := cache.get("key")
	if again[0] != 1 {
		t.Error("cache entry was mutated through the returned slice")
	}

	// Expired entries miss.
	cache.entries["old"] = cacheEntry{createdAt: time.Now().Add(-2 * cacheTTL), image: []byte{1}}
	if _, ok := cache.get("old"); ok {
		t.Error("expected expired entry to miss")
	}
}

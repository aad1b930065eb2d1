package scheduler

import (
	"testing"
	"time"

	"github.com/avarre/pea-tracker/pkg/logger"
)

func TestIsOpenAt(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	svc := NewMarketHoursService(log)

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("Europe/Paris timezone data not available")
	}

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{
			name: "Tuesday mid-session",
			at:   time.Date(2026, 9, 1, 11, 0, 0, 0, paris),
			open: true,
		},
		{
			name: "right at the open",
			at:   time.Date(2026, 9, 1, 9, 0, 0, 0, paris),
			open: true,
		},
		{
			name: "one minute before the open",
			at:   time.Date(2026, 9, 1, 8, 59, 0, 0, paris),
			open: false,
		},
		{
			name: "right at the close",
			at:   time.Date(2026, 9, 1, 17, 30, 0, 0, paris),
			open: false,
		},
		{
			name: "last trading minute",
			at:   time.Date(2026, 9, 1, 17, 29, 0, 0, paris),
			open: true,
		},
		{
			name: "Saturday",
			at:   time.Date(2026, 9, 5, 11, 0, 0, 0, paris),
			open: false,
		},
		{
			name: "Sunday",
			at:   time.Date(2026, 9, 6, 11, 0, 0, 0, paris),
			open: false,
		},
		{
			name: "Labour Day holiday",
			at:   time.Date(2026, 5, 1, 11, 0, 0, 0, paris),
			open: false,
		},
		{
			name: "Christmas holiday",
			at:   time.Date(2026, 12, 25, 11, 0, 0, 0, paris),
			open: false,
		},
		{
			name: "UTC time converted to Paris session",
			// 08:00 UTC is 10:00 CEST in September
			at:   time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			open: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.isOpenAt(tt.at); got != tt.open {
				t.Errorf("isOpenAt(%v) = %v, want %v", tt.at, got, tt.open)
			}
		})
	}
}

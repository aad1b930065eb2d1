package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// TradingWindow represents a single trading period within a day
type TradingWindow struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// ExchangeCalendar defines trading hours and holidays for an exchange
type ExchangeCalendar struct {
	Code           string
	Name           string
	Timezone       *time.Location
	TradingWindows []TradingWindow
	Holidays       []time.Time
}

// MarketHoursService reports whether Euronext Paris is currently trading.
// PEA-eligible ETFs are all listed on Euronext Paris, so a single calendar
// is enough.
type MarketHoursService struct {
	calendar *ExchangeCalendar
	log      zerolog.Logger
}

// NewMarketHoursService creates a new market hours service
func NewMarketHoursService(log zerolog.Logger) *MarketHoursService {
	parisLoc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		parisLoc = time.UTC
	}

	// Euronext Paris continuous trading: 09:00-17:30 CET/CEST
	calendar := &ExchangeCalendar{
		Code:     "XPAR",
		Name:     "Euronext Paris",
		Timezone: parisLoc,
		TradingWindows: []TradingWindow{
			{OpenHour: 9, OpenMinute: 0, CloseHour: 17, CloseMinute: 30},
		},
		Holidays: []time.Time{
			time.Date(2026, 1, 1, 0, 0, 0, 0, parisLoc),   // New Year's Day
			time.Date(2026, 4, 3, 0, 0, 0, 0, parisLoc),   // Good Friday
			time.Date(2026, 4, 6, 0, 0, 0, 0, parisLoc),   // Easter Monday
			time.Date(2026, 5, 1, 0, 0, 0, 0, parisLoc),   // Labour Day
			time.Date(2026, 12, 25, 0, 0, 0, 0, parisLoc), // Christmas
		},
	}

	return &MarketHoursService{
		calendar: calendar,
		log:      log.With().Str("component", "market_hours").Logger(),
	}
}

// IsMarketOpen returns true while Euronext Paris is in continuous trading
func (s *MarketHoursService) IsMarketOpen() bool {
	return s.isOpenAt(time.Now())
}

func (s *MarketHoursService) isOpenAt(t time.Time) bool {
	local := t.In(s.calendar.Timezone)

	// Weekend
	if local.Weekday() == time.Saturday || local.Weekday() == time.Sunday {
		return false
	}

	// Exchange holiday
	for _, holiday := range s.calendar.Holidays {
		if local.Year() == holiday.Year() && local.YearDay() == holiday.YearDay() {
			return false
		}
	}

	minutes := local.Hour()*60 + local.Minute()
	for _, window := range s.calendar.TradingWindows {
		open := window.OpenHour*60 + window.OpenMinute
		closeAt := window.CloseHour*60 + window.CloseMinute
		if minutes >= open && minutes < closeAt {
			return true
		}
	}

	return false
}

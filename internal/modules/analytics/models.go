package analytics

import (
	"time"

	"github.com/avarre/pea-tracker/internal/modules/marketdata"
)

// AnnualTradingDays is the annualization constant. It is applied uniformly
// regardless of the sampling frequency of the input returns, including
// weekly/monthly resampled series — a known approximation kept on purpose.
const AnnualTradingDays = 252

// Period selects the return sampling period
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Valid reports whether the period is one of the supported values
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// PricePoint is one closing price observation
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series is an ordered sequence of closing prices, ascending by date
type Series []PricePoint

// ValuePoint is the portfolio value at one date
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ReturnPoint is one period return; Date is the period's last observation
type ReturnPoint struct {
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
}

// CorrelationMatrix is a symmetric Pearson correlation matrix over tickers.
// Matrix[i][j] correlates Tickers[i] with Tickers[j]; the diagonal is 1.0.
type CorrelationMatrix struct {
	Tickers []string    `json:"tickers"`
	Matrix  [][]float64 `json:"matrix"`
}

// Empty reports whether the matrix carries no data
func (m CorrelationMatrix) Empty() bool {
	return len(m.Tickers) == 0
}

// Values extracts the raw return values from a return sequence
func Values(returns []ReturnPoint) []float64 {
	values := make([]float64, len(returns))
	for i, r := range returns {
		values[i] = r.Return
	}
	return values
}

// SeriesFromDailyPrices converts stored daily prices to an analytics series.
// Bars with unparseable dates are dropped.
func SeriesFromDailyPrices(prices []marketdata.DailyPrice) Series {
	series := make(Series, 0, len(prices))
	for _, p := range prices {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			continue
		}
		series = append(series, PricePoint{Date: date, Close: p.Close})
	}
	return series
}

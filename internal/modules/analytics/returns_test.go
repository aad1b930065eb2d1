package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seriesOf(points ...[2]interface{}) Series {
	s := make(Series, 0, len(points))
	for _, p := range points {
		s = append(s, PricePoint{Date: day(p[0].(string)), Close: p[1].(float64)})
	}
	return s
}

func TestCalculateValueSeries(t *testing.T) {
	positions := []portfolio.Position{
		{Ticker: "EWLD.PA", Quantity: 10, BuyPrice: 28, BuyDate: "2024-01-02"},
		{Ticker: "PE500.PA", Quantity: 5, BuyPrice: 42, BuyDate: "2024-01-02"},
	}

	t.Run("inner join on common dates", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 29.0},
				[2]interface{}{"2026-01-06", 29.5},
				[2]interface{}{"2026-01-07", 30.0},
			),
			"PE500.PA": seriesOf(
				// 2026-01-06 missing: that date is excluded
				[2]interface{}{"2026-01-05", 43.0},
				[2]interface{}{"2026-01-07", 44.0},
			),
		}

		values := CalculateValueSeries(positions, historical)
		require.Len(t, values, 2)
		assert.Equal(t, day("2026-01-05"), values[0].Date)
		assert.InDelta(t, 10*29.0+5*43.0, values[0].Value, 1e-9)
		assert.Equal(t, day("2026-01-07"), values[1].Date)
		assert.InDelta(t, 10*30.0+5*44.0, values[1].Value, 1e-9)
	})

	t.Run("position without history is skipped", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 29.0},
				[2]interface{}{"2026-01-06", 29.5},
			),
		}

		values := CalculateValueSeries(positions, historical)
		require.Len(t, values, 2)
		assert.InDelta(t, 10*29.0, values[0].Value, 1e-9)
	})

	t.Run("empty portfolio yields empty series", func(t *testing.T) {
		values := CalculateValueSeries(nil, map[string]Series{})
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("no common dates yields empty series", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA":  seriesOf([2]interface{}{"2026-01-05", 29.0}),
			"PE500.PA": seriesOf([2]interface{}{"2026-01-06", 43.0}),
		}
		values := CalculateValueSeries(positions, historical)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})
}

func TestCalculateReturns(t *testing.T) {
	positions := []portfolio.Position{
		{Ticker: "EWLD.PA", Quantity: 1, BuyPrice: 100, BuyDate: "2024-01-02"},
	}

	t.Run("daily returns are period-over-period", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 100.0},
				[2]interface{}{"2026-01-06", 110.0},
				[2]interface{}{"2026-01-07", 99.0},
			),
		}

		returns := CalculateReturns(positions, historical, PeriodDaily)
		require.Len(t, returns, 2)
		assert.InDelta(t, 0.10, returns[0].Return, 1e-9)
		assert.InDelta(t, -0.10, returns[1].Return, 1e-9)
		assert.Equal(t, day("2026-01-06"), returns[0].Date)
	})

	t.Run("weekly returns compound within the ISO week", func(t *testing.T) {
		// Mon 2026-01-05 through Wed, then Mon of the following week
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 100.0},
				[2]interface{}{"2026-01-06", 102.0},
				[2]interface{}{"2026-01-07", 104.04},
				[2]interface{}{"2026-01-12", 104.04},
			),
		}

		returns := CalculateReturns(positions, historical, PeriodWeekly)
		require.Len(t, returns, 2)
		// Week one compounds (1.02 × 1.02) − 1
		assert.InDelta(t, 0.0404, returns[0].Return, 1e-9)
		assert.Equal(t, day("2026-01-07"), returns[0].Date)
		// Week two holds flat
		assert.InDelta(t, 0.0, returns[1].Return, 1e-9)
		assert.Equal(t, day("2026-01-12"), returns[1].Date)
	})

	t.Run("monthly returns compound within the calendar month", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-30", 100.0},
				[2]interface{}{"2026-01-31", 110.0},
				[2]interface{}{"2026-02-02", 121.0},
				[2]interface{}{"2026-02-03", 133.1},
			),
		}

		returns := CalculateReturns(positions, historical, PeriodMonthly)
		require.Len(t, returns, 2)
		assert.InDelta(t, 0.10, returns[0].Return, 1e-9)
		// February compounds 1.10 × 1.10 − 1
		assert.InDelta(t, 0.21, returns[1].Return, 1e-9)
		assert.Equal(t, day("2026-02-03"), returns[1].Date)
	})

	t.Run("fewer than two dates yields empty returns", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf([2]interface{}{"2026-01-05", 100.0}),
		}
		returns := CalculateReturns(positions, historical, PeriodDaily)
		assert.NotNil(t, returns)
		assert.Empty(t, returns)
	})

	t.Run("returns are finite even with zero values", func(t *testing.T) {
		historical := map[string]Series{
			"EWLD.PA": seriesOf(
				[2]interface{}{"2026-01-05", 0.0},
				[2]interface{}{"2026-01-06", 100.0},
			),
		}
		returns := CalculateReturns(positions, historical, PeriodDaily)
		require.Len(t, returns, 1)
		assert.False(t, math.IsNaN(returns[0].Return))
		assert.Equal(t, 0.0, returns[0].Return)
	})
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, PeriodDaily.Valid())
	assert.True(t, PeriodWeekly.Valid())
	assert.True(t, PeriodMonthly.Valid())
	assert.False(t, Period("yearly").Valid())
	assert.False(t, Period("").Valid())
}

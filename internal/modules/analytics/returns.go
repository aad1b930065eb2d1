package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

// InnerJoin restricts the per-ticker series to dates present in every series.
// A date missing from any one series excludes that date entirely.
// Returns the common dates ascending and the close per ticker per date,
// keyed by the date formatted as YYYY-MM-DD.
func InnerJoin(historical map[string]Series, tickers []string) ([]time.Time, map[string]map[string]float64) {
	closes := make(map[string]map[string]float64) // dateKey -> ticker -> close
	for _, ticker := range tickers {
		for _, point := range historical[ticker] {
			key := point.Date.Format("2006-01-02")
			if closes[key] == nil {
				closes[key] = make(map[string]float64, len(tickers))
			}
			closes[key][ticker] = point.Close
		}
	}

	keys := make([]string, 0, len(closes))
	for key, byTicker := range closes {
		if len(byTicker) == len(tickers) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	dates := make([]time.Time, len(keys))
	for i, key := range keys {
		dates[i], _ = time.Parse("2006-01-02", key)
	}

	joined := make(map[string]map[string]float64, len(keys))
	for _, key := range keys {
		joined[key] = closes[key]
	}

	return dates, joined
}

// CalculateValueSeries calculates portfolio value at each date common to the
// historical series of every position that has one (inner join on date).
// Positions without historical data are skipped with a warning; an empty
// portfolio or an empty join yields an empty sequence.
func CalculateValueSeries(positions []portfolio.Position, historical map[string]Series) []ValuePoint {
	if len(positions) == 0 {
		log.Warn().Msg("Portfolio is empty, returning empty value series")
		return []ValuePoint{}
	}

	quantities := make(map[string]float64)
	for _, pos := range positions {
		series, ok := historical[pos.Ticker]
		if !ok || len(series) == 0 {
			log.Warn().Str("ticker", pos.Ticker).Msg("Historical data not available, skipping")
			continue
		}
		quantities[pos.Ticker] = pos.Quantity
	}

	if len(quantities) == 0 {
		log.Warn().Msg("No historical data for any positions")
		return []ValuePoint{}
	}

	tickers := make([]string, 0, len(quantities))
	for ticker := range quantities {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	dates, closes := InnerJoin(historical, tickers)
	if len(dates) == 0 {
		log.Warn().Msg("No common dates across historical data")
		return []ValuePoint{}
	}

	values := make([]ValuePoint, len(dates))
	for i, date := range dates {
		byTicker := closes[date.Format("2006-01-02")]
		value := 0.0
		for _, ticker := range tickers {
			value += quantities[ticker] * byTicker[ticker]
		}
		values[i] = ValuePoint{Date: date, Value: value}
	}

	return values
}

// CalculateReturns calculates portfolio returns over time.
// Daily returns are simple period-over-period changes of the joined value
// series; weekly and monthly returns compound the daily returns within each
// calendar bucket. n dates produce n-1 daily returns.
func CalculateReturns(positions []portfolio.Position, historical map[string]Series, period Period) []ReturnPoint {
	values := CalculateValueSeries(positions, historical)
	if len(values) < 2 {
		return []ReturnPoint{}
	}

	returns := make([]ReturnPoint, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1].Value
		r := 0.0
		if prev != 0 {
			r = (values[i].Value - prev) / prev
		}
		returns = append(returns, ReturnPoint{Date: values[i].Date, Return: r})
	}

	switch period {
	case PeriodWeekly:
		return resample(returns, weekKey)
	case PeriodMonthly:
		return resample(returns, monthKey)
	default:
		// daily needs no resampling
		return returns
	}
}

// resample compounds returns within calendar buckets: ∏(1+r) − 1.
// The bucket's date is its last observation. Input order is preserved, so
// ascending daily returns produce ascending bucket returns.
func resample(returns []ReturnPoint, key func(time.Time) string) []ReturnPoint {
	if len(returns) == 0 {
		return returns
	}

	resampled := []ReturnPoint{}
	currentKey := ""
	compound := 1.0

	for _, r := range returns {
		k := key(r.Date)
		if k != currentKey && currentKey != "" {
			last := resampled[len(resampled)-1]
			last.Return = compound - 1.0
			resampled[len(resampled)-1] = last
			compound = 1.0
		}
		if k != currentKey {
			currentKey = k
			resampled = append(resampled, ReturnPoint{Date: r.Date})
		} else {
			resampled[len(resampled)-1].Date = r.Date
		}
		compound *= 1.0 + r.Return
	}

	last := resampled[len(resampled)-1]
	last.Return = compound - 1.0
	resampled[len(resampled)-1] = last

	return resampled
}

// weekKey buckets a date into its ISO year and week
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// monthKey buckets a date into its calendar month
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

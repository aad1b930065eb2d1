// Package analytics is the portfolio performance engine: pure, stateless
// functions over position snapshots and price data. Missing or partial data
// never raises an error here — every function degrades to a documented
// zero or empty result and logs a warning instead.
package analytics

import (
	"github.com/rs/zerolog/log"

	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

// effectivePrice resolves the price used for valuing a position:
// manual override if set, else the fetched price, else unavailable.
func effectivePrice(pos portfolio.Position, prices map[string]float64) (float64, bool) {
	if pos.ManualPrice != nil {
		return *pos.ManualPrice, true
	}
	if price, ok := prices[pos.Ticker]; ok {
		return price, true
	}
	return 0, false
}

// CalculatePortfolioValue calculates total portfolio value in EUR.
// Positions without a resolvable price are skipped, not valued at zero.
// Returns 0.0 for an empty portfolio or when every price is missing.
func CalculatePortfolioValue(positions []portfolio.Position, prices map[string]float64) float64 {
	totalValue := 0.0

	for _, pos := range positions {
		price, ok := effectivePrice(pos, prices)
		if !ok {
			log.Warn().Str("ticker", pos.Ticker).Msg("Price not available, skipping")
			continue
		}
		totalValue += pos.Quantity * price
	}

	return totalValue
}

// CalculateTotalInvested calculates the total amount invested
// (quantity × buy price). Needs no price lookup, so it is always computable.
func CalculateTotalInvested(positions []portfolio.Position) float64 {
	totalInvested := 0.0

	for _, pos := range positions {
		totalInvested += pos.Quantity * pos.BuyPrice
	}

	return totalInvested
}

// CalculatePnL calculates profit/loss (current value minus invested).
// Positive means gain.
func CalculatePnL(positions []portfolio.Position, prices map[string]float64) float64 {
	return CalculatePortfolioValue(positions, prices) - CalculateTotalInvested(positions)
}

// CalculatePositionValues calculates the value of each position.
// Only tickers with a resolvable effective price appear in the result.
func CalculatePositionValues(positions []portfolio.Position, prices map[string]float64) map[string]float64 {
	positionValues := make(map[string]float64)

	for _, pos := range positions {
		price, ok := effectivePrice(pos, prices)
		if !ok {
			log.Warn().Str("ticker", pos.Ticker).Msg("Price not available, skipping")
			continue
		}
		positionValues[pos.Ticker] = pos.Quantity * price
	}

	return positionValues
}

// CalculateAllocation calculates each position's percentage of total value.
// When non-empty, the percentages sum to 100 within floating-point tolerance.
// A zero total value yields an empty map rather than a division by zero;
// note this makes "no prices" and "all positions worthless" indistinguishable
// from the return shape alone, matching the valuation the UI displays.
func CalculateAllocation(positions []portfolio.Position, prices map[string]float64) map[string]float64 {
	positionValues := CalculatePositionValues(positions, prices)

	totalValue := 0.0
	for _, value := range positionValues {
		totalValue += value
	}

	if totalValue == 0.0 {
		log.Warn().Msg("Total portfolio value is zero, cannot calculate allocation")
		return map[string]float64{}
	}

	allocations := make(map[string]float64, len(positionValues))
	for ticker, value := range positionValues {
		allocations[ticker] = value / totalValue * 100.0
	}

	return allocations
}

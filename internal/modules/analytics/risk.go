package analytics

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/avarre/pea-tracker/pkg/formulas"
)

// CalculateVolatility calculates the sample standard deviation of returns
// (n−1 divisor). An empty sequence, or one too short for a sample deviation,
// yields 0.0. When annualize is set the result is scaled by sqrt(252)
// regardless of the actual sampling frequency.
func CalculateVolatility(returns []float64, annualize bool) float64 {
	if len(returns) == 0 {
		log.Warn().Msg("Returns sequence is empty, returning 0.0 volatility")
		return 0.0
	}

	volatility := formulas.StdDev(returns)
	if math.IsNaN(volatility) {
		return 0.0
	}

	if annualize {
		volatility *= math.Sqrt(AnnualTradingDays)
	}

	return volatility
}

// CalculateSharpeRatio calculates the risk-adjusted return:
// mean excess return over the non-annualized volatility.
// Zero volatility yields 0.0 — a deliberate simplification that masks a
// genuinely undefined ratio rather than returning NaN or infinity.
// Annualizing multiplies the ratio by sqrt(252), which is equivalent to
// annualizing mean and volatility separately and dividing.
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, annualize bool) float64 {
	if len(returns) == 0 {
		log.Warn().Msg("Returns sequence is empty, returning 0.0 Sharpe ratio")
		return 0.0
	}

	volatility := CalculateVolatility(returns, false)
	if volatility == 0.0 {
		log.Warn().Msg("Volatility is zero, returning 0.0 Sharpe ratio")
		return 0.0
	}

	meanExcess := formulas.Mean(returns) - riskFreeRate

	sharpe := meanExcess / volatility
	if annualize {
		sharpe *= math.Sqrt(AnnualTradingDays)
	}

	return sharpe
}

// CalculateMaxDrawdown calculates the largest peak-to-trough decline of a
// value sequence as a negative percentage (-30.0 means a 30% decline).
// An empty sequence, a sequence that never dips below its running maximum,
// or a NaN result (zero running maximum) all yield 0.0.
func CalculateMaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		log.Warn().Msg("Value sequence is empty, returning 0.0 drawdown")
		return 0.0
	}

	runningMax := values[0]
	maxDrawdown := math.Inf(1)

	for _, value := range values {
		if value > runningMax {
			runningMax = value
		}
		drawdown := (value - runningMax) / runningMax * 100.0
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	if maxDrawdown >= 0.0 || math.IsNaN(maxDrawdown) || math.IsInf(maxDrawdown, 0) {
		return 0.0
	}

	return maxDrawdown
}

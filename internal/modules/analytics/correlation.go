package analytics

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/avarre/pea-tracker/pkg/formulas"
)

// CalculateCorrelationMatrix calculates the Pearson correlation matrix of
// daily returns across tickers. Series are inner-joined on date first, the
// same way CalculateReturns combines them. The diagonal is exactly 1.0 and
// the matrix is symmetric by construction. Empty input, no common dates, or
// too few common dates to form returns all yield an empty matrix.
func CalculateCorrelationMatrix(historical map[string]Series) CorrelationMatrix {
	empty := CorrelationMatrix{Tickers: []string{}, Matrix: [][]float64{}}

	if len(historical) == 0 {
		log.Warn().Msg("Historical data is empty, returning empty correlation matrix")
		return empty
	}

	tickers := make([]string, 0, len(historical))
	for ticker, series := range historical {
		if len(series) == 0 {
			log.Warn().Str("ticker", ticker).Msg("No closing prices, skipping")
			continue
		}
		tickers = append(tickers, ticker)
	}
	if len(tickers) == 0 {
		return empty
	}
	sort.Strings(tickers)

	dates, closes := InnerJoin(historical, tickers)
	if len(dates) == 0 {
		log.Warn().Msg("No common dates across historical data")
		return empty
	}
	if len(dates) < 2 {
		log.Warn().Msg("Not enough common dates to compute returns")
		return empty
	}

	// Per-ticker returns on the joined series
	returnsByTicker := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		prices := make([]float64, len(dates))
		for i, date := range dates {
			prices[i] = closes[date.Format("2006-01-02")][ticker]
		}
		returnsByTicker[ticker] = formulas.CalculateReturns(prices)
	}

	matrix := make([][]float64, len(tickers))
	for i := range matrix {
		matrix[i] = make([]float64, len(tickers))
		matrix[i][i] = 1.0
	}

	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			corr := formulas.Correlation(returnsByTicker[tickers[i]], returnsByTicker[tickers[j]])
			matrix[i][j] = corr
			matrix[j][i] = corr
		}
	}

	return CorrelationMatrix{Tickers: tickers, Matrix: matrix}
}

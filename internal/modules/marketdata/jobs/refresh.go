package jobs

import (
	"github.com/rs/zerolog"

	"github.com/avarre/pea-tracker/internal/modules/marketdata"
	"github.com/avarre/pea-tracker/internal/modules/portfolio"
	"github.com/avarre/pea-tracker/internal/scheduler"
)

// RefreshJob refreshes current prices and daily history for every held ticker.
// Runs on the scheduler; skipped outside Euronext Paris trading hours.
type RefreshJob struct {
	marketData   *marketdata.Service
	portfolioSvc *portfolio.Service
	marketHours  *scheduler.MarketHoursService
	historyRange string
	log          zerolog.Logger
}

// NewRefreshJob creates a new price refresh job
func NewRefreshJob(
	marketData *marketdata.Service,
	portfolioSvc *portfolio.Service,
	marketHours *scheduler.MarketHoursService,
	log zerolog.Logger,
) *RefreshJob {
	return &RefreshJob{
		marketData:   marketData,
		portfolioSvc: portfolioSvc,
		marketHours:  marketHours,
		historyRange: "1y",
		log:          log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes prices for all positions
func (j *RefreshJob) Run() error {
	if j.marketHours != nil && !j.marketHours.IsMarketOpen() {
		j.log.Debug().Msg("Market closed, skipping price refresh")
		return nil
	}

	positions, err := j.portfolioSvc.List()
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		j.log.Debug().Msg("Portfolio is empty, nothing to refresh")
		return nil
	}

	tickers := make([]string, 0, len(positions))
	for _, pos := range positions {
		tickers = append(tickers, pos.Ticker)
	}

	prices := j.marketData.FetchPrices(tickers)
	j.log.Info().
		Int("requested", len(tickers)).
		Int("fetched", len(prices)).
		Msg("Price refresh complete")

	for _, ticker := range tickers {
		if err := j.marketData.RefreshHistory(ticker, j.historyRange); err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to refresh history")
		}
	}

	return nil
}

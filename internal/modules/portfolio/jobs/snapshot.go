package jobs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avarre/pea-tracker/internal/modules/analytics"
	"github.com/avarre/pea-tracker/internal/modules/marketdata"
	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

// SnapshotJob records one portfolio valuation per day.
// Re-running on the same date overwrites that date's row.
type SnapshotJob struct {
	portfolioSvc *portfolio.Service
	marketData   *marketdata.Service
	snapshots    *portfolio.SnapshotRepository
	log          zerolog.Logger
}

// NewSnapshotJob creates a new daily snapshot job
func NewSnapshotJob(
	portfolioSvc *portfolio.Service,
	marketData *marketdata.Service,
	snapshots *portfolio.SnapshotRepository,
	log zerolog.Logger,
) *SnapshotJob {
	return &SnapshotJob{
		portfolioSvc: portfolioSvc,
		marketData:   marketData,
		snapshots:    snapshots,
		log:          log.With().Str("job", "snapshot").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "portfolio-snapshot"
}

// Run computes the current valuation and stores it for today
func (j *SnapshotJob) Run() error {
	positions, err := j.portfolioSvc.List()
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}

	if len(positions) == 0 {
		j.log.Info().Msg("Portfolio is empty, skipping snapshot")
		return nil
	}

	tickers := make([]string, 0, len(positions))
	for _, pos := range positions {
		tickers = append(tickers, pos.Ticker)
	}
	prices := j.marketData.FetchPrices(tickers)

	totalValue := analytics.CalculatePortfolioValue(positions, prices)
	invested := analytics.CalculateTotalInvested(positions)

	snapshot := portfolio.Snapshot{
		Date:          time.Now().Format(portfolio.DateFormat),
		TotalValue:    totalValue,
		Invested:      invested,
		PnL:           totalValue - invested,
		PositionCount: len(positions),
	}

	if err := j.snapshots.Save(snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	j.log.Info().
		Str("date", snapshot.Date).
		Float64("total_value", snapshot.TotalValue).
		Float64("pnl", snapshot.PnL).
		Int("positions", snapshot.PositionCount).
		Msg("Portfolio snapshot saved")

	return nil
}

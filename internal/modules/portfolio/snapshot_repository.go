package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// SnapshotRepository persists daily portfolio valuations.
// One row per calendar day; saving twice on the same day overwrites.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshot").Logger(),
	}
}

// Save upserts the snapshot for its date
func (r *SnapshotRepository) Save(snapshot Snapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (date, total_value, invested, pnl, position_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_value = excluded.total_value,
			invested = excluded.invested,
			pnl = excluded.pnl,
			position_count = excluded.position_count
	`

	_, err := r.db.Exec(query,
		snapshot.Date,
		snapshot.TotalValue,
		snapshot.Invested,
		snapshot.PnL,
		snapshot.PositionCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.log.Debug().
		Str("date", snapshot.Date).
		Float64("total_value", snapshot.TotalValue).
		Msg("Snapshot saved")

	return nil
}

// GetHistory returns the most recent snapshots in ascending date order
func (r *SnapshotRepository) GetHistory(days int) ([]Snapshot, error) {
	query := `
		SELECT date, total_value, invested, pnl, position_count
		FROM (
			SELECT date, total_value, invested, pnl, position_count
			FROM portfolio_snapshots
			ORDER BY date DESC
			LIMIT ?
		)
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Date, &s.TotalValue, &s.Invested, &s.PnL, &s.PositionCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// GetLatest returns the most recent snapshot, or nil when none exist
func (r *SnapshotRepository) GetLatest() (*Snapshot, error) {
	query := `
		SELECT date, total_value, invested, pnl, position_count
		FROM portfolio_snapshots
		ORDER BY date DESC
		LIMIT 1
	`

	var s Snapshot
	err := r.db.QueryRow(query).Scan(&s.Date, &s.TotalValue, &s.Invested, &s.PnL, &s.PositionCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	return &s, nil
}

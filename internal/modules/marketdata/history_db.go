package marketdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"
)

// HistoryDB stores historical prices, one SQLite file per ticker
type HistoryDB struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryDB creates a new history database accessor
func NewHistoryDB(historyDir string, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_db").Logger(),
	}
}

// SaveDailyPrices upserts daily bars for a ticker
func (h *HistoryDB) SaveDailyPrices(ticker string, prices []DailyPrice) error {
	db, err := h.openHistoryDB(ticker, true)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (date, open_price, high_price, low_price, close_price, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			open_price = excluded.open_price,
			high_price = excluded.high_price,
			low_price = excluded.low_price,
			close_price = excluded.close_price,
			volume = excluded.volume
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		var volume interface{}
		if p.Volume != nil {
			volume = *p.Volume
		}
		if _, err := stmt.Exec(p.Date, p.Open, p.High, p.Low, p.Close, volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert daily price for %s: %w", p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily prices: %w", err)
	}

	h.log.Debug().
		Str("ticker", ticker).
		Int("bars", len(prices)).
		Msg("Saved daily prices")

	return nil
}

// GetDailyPrices fetches daily bars for a ticker in ascending date order.
// limit <= 0 returns the full series. A missing history file yields an
// empty slice, not an error.
func (h *HistoryDB) GetDailyPrices(ticker string, limit int) ([]DailyPrice, error) {
	path := h.dbPath(ticker)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []DailyPrice{}, nil
	}

	db, err := h.openHistoryDB(ticker, false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT date, open_price, high_price, low_price, close_price, volume
		FROM daily_prices
		ORDER BY date ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query = `
			SELECT date, open_price, high_price, low_price, close_price, volume
			FROM (
				SELECT date, open_price, high_price, low_price, close_price, volume
				FROM daily_prices
				ORDER BY date DESC
				LIMIT ?
			)
			ORDER BY date ASC
		`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	prices := []DailyPrice{}
	for rows.Next() {
		var p DailyPrice
		var volume sql.NullInt64

		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		if volume.Valid {
			p.Volume = &volume.Int64
		}

		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return prices, nil
}

func (h *HistoryDB) openHistoryDB(ticker string, create bool) (*sql.DB, error) {
	if create {
		if err := os.MkdirAll(h.historyDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", h.dbPath(ticker))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database for %s: %w", ticker, err)
	}

	if create {
		schema := `
			CREATE TABLE IF NOT EXISTS daily_prices (
				date TEXT PRIMARY KEY,
				open_price REAL,
				high_price REAL,
				low_price REAL,
				close_price REAL NOT NULL,
				volume INTEGER
			)
		`
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create daily_prices table: %w", err)
		}
	}

	return db, nil
}

// dbPath maps a ticker to its history file, e.g. EWLD.PA -> ewld_pa.db
func (h *HistoryDB) dbPath(ticker string) string {
	name := strings.ToLower(ticker)
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return filepath.Join(h.historyDir, name+".db")
}

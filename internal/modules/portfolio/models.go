package portfolio

import (
	"fmt"
	"time"
)

// DateFormat is the ISO date layout used for buy dates everywhere
const DateFormat = "2006-01-02"

// Position represents a single ETF position in a PEA portfolio.
// Values are treated as immutable snapshots: operations that change a
// position (including setting or clearing the manual price) produce a new
// value instead of mutating shared state.
type Position struct {
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"` // fractional shares allowed
	BuyPrice    float64  `json:"buy_price"`
	BuyDate     string   `json:"buy_date"`               // YYYY-MM-DD
	ManualPrice *float64 `json:"manual_price,omitempty"` // overrides any fetched price
}

// Validate checks structural constraints before a position enters the portfolio
func (p Position) Validate() error {
	if p.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative, got %f", p.Quantity)
	}
	if p.BuyPrice <= 0 {
		return fmt.Errorf("buy price must be positive, got %f", p.BuyPrice)
	}
	if _, err := time.Parse(DateFormat, p.BuyDate); err != nil {
		return fmt.Errorf("invalid buy date %q: %w", p.BuyDate, err)
	}
	if p.ManualPrice != nil && *p.ManualPrice <= 0 {
		return fmt.Errorf("manual price must be positive, got %f", *p.ManualPrice)
	}

	return nil
}

// WithManualPrice returns a copy of the position with the override set
func (p Position) WithManualPrice(price float64) Position {
	p.ManualPrice = &price
	return p
}

// WithoutManualPrice returns a copy of the position with the override cleared
func (p Position) WithoutManualPrice() Position {
	p.ManualPrice = nil
	return p
}

// Snapshot represents one day's portfolio valuation
type Snapshot struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	TotalValue    float64 `json:"total_value"`
	Invested      float64 `json:"invested"`
	PnL           float64 `json:"pnl"`
	PositionCount int     `json:"position_count"`
}

// document is the on-disk JSON shape: {"positions": [...]}
type document struct {
	Positions []Position `json:"positions"`
}

package settings

import "fmt"

// ETFInfo describes one ETF in the default PEA universe
type ETFInfo struct {
	Ticker string  `json:"ticker"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ChartPreferences holds chart display preferences
type ChartPreferences struct {
	DefaultChart string `json:"default_chart"`
	ColorScheme  string `json:"color_scheme"`
	ShowGrid     bool   `json:"show_grid"`
	ShowLegend   bool   `json:"show_legend"`
}

// Settings holds the user-facing application settings
type Settings struct {
	DefaultCurrency            string           `json:"default_currency"`
	DataSource                 string           `json:"data_source"`
	AutoRefreshEnabled         bool             `json:"auto_refresh_enabled"`
	AutoRefreshIntervalMinutes int              `json:"auto_refresh_interval_minutes"`
	ETFs                       []ETFInfo        `json:"etfs"`
	ChartPreferences           ChartPreferences `json:"chart_preferences"`
	LastPortfolioPath          string           `json:"last_portfolio_path"`
}

// Default returns the default settings: the classic PEA-eligible ETF universe
func Default() Settings {
	return Settings{
		DefaultCurrency:            "EUR",
		DataSource:                 "yahoo",
		AutoRefreshEnabled:         false,
		AutoRefreshIntervalMinutes: 5,
		ETFs: []ETFInfo{
			{Ticker: "EWLD.PA", Name: "Amundi MSCI World UCITS ETF", Weight: 0.30},
			{Ticker: "PE500.PA", Name: "Lyxor PEA S&P 500 UCITS ETF", Weight: 0.25},
			{Ticker: "PAEEM.PA", Name: "Lyxor PEA Emergents MSCI EM", Weight: 0.15},
			{Ticker: "PCEU.PA", Name: "Lyxor STOXX Europe 600 UCITS ETF", Weight: 0.20},
			{Ticker: "PSP5.PA", Name: "Amundi MSCI Europe UCITS ETF", Weight: 0.10},
		},
		ChartPreferences: ChartPreferences{
			DefaultChart: "portfolio_value",
			ColorScheme:  "light",
			ShowGrid:     true,
			ShowLegend:   true,
		},
		LastPortfolioPath: "",
	}
}

// Validate checks settings constraints
func (s Settings) Validate() error {
	if s.DefaultCurrency == "" {
		return fmt.Errorf("default currency is required")
	}
	if s.AutoRefreshIntervalMinutes < 1 {
		return fmt.Errorf("auto refresh interval must be at least 1 minute, got %d", s.AutoRefreshIntervalMinutes)
	}
	for _, etf := range s.ETFs {
		if etf.Ticker == "" {
			return fmt.Errorf("ETF ticker is required")
		}
		if etf.Weight < 0 {
			return fmt.Errorf("ETF weight must not be negative for %s, got %f", etf.Ticker, etf.Weight)
		}
	}

	return nil
}

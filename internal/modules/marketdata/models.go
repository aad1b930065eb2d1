package marketdata

// DailyPrice represents a daily OHLCV price point
type DailyPrice struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

// cacheDocument is the on-disk cache shape: {"prices": {ticker: price}}
type cacheDocument struct {
	Prices map[string]float64 `json:"prices"`
}

package yahoo

// DailyBar represents one daily OHLCV bar
type DailyBar struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume *int64  `json:"volume,omitempty"`
}

// quoteResponse represents the response from the Yahoo Finance quote API
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// chartResponse represents the response from the Yahoo Finance chart API.
// Missing sessions come back as JSON nulls, hence the pointer slices.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// getFloat64 extracts an optional float64 from a quote info map
func getFloat64(info map[string]interface{}, key string) *float64 {
	if v, ok := info[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}

// getString extracts a string from a quote info map with a default
func getString(info map[string]interface{}, key, defaultValue string) string {
	if v, ok := info[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return defaultValue
}

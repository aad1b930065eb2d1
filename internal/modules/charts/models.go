package charts

// ChartType is the closed set of renderable charts
type ChartType string

const (
	ChartValue      ChartType = "value"      // portfolio value line with SMA overlay
	ChartAllocation ChartType = "allocation" // allocation pie
	ChartReturns    ChartType = "returns"    // period returns bars
	ChartPrice      ChartType = "price"      // single ticker close line with SMA overlay
	ChartComparison ChartType = "comparison" // held tickers normalized to 100
)

// Valid reports whether the chart type is one of the supported values
func (t ChartType) Valid() bool {
	switch t {
	case ChartValue, ChartAllocation, ChartReturns, ChartPrice, ChartComparison:
		return true
	}
	return false
}

package charts

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"
	"github.com/vicanso/go-charts/v2"

	"github.com/avarre/pea-tracker/internal/modules/analytics"
	"github.com/avarre/pea-tracker/internal/modules/marketdata"
	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

// smaWindow is the moving-average window drawn on top of value and
// price charts.
const smaWindow = 20

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Service renders portfolio charts as PNG images
type Service struct {
	portfolioSvc *portfolio.Service
	marketData   *marketdata.Service
	cache        *imageCache
	log          zerolog.Logger
}

// NewService creates a new charts service
func NewService(portfolioSvc *portfolio.Service, marketData *marketdata.Service, log zerolog.Logger) *Service {
	return &Service{
		portfolioSvc: portfolioSvc,
		marketData:   marketData,
		cache:        newImageCache(),
		log:          log.With().Str("service", "charts").Logger(),
	}
}

// ValueChart renders the portfolio value over time as a line chart with
// an SMA overlay. dateRange is one of 1M, 3M, 6M, 1Y, 5Y, 10Y or "all".
func (s *Service) ValueChart(dateRange string) ([]byte, error) {
	cacheKey := "value|" + dateRange
	if img, ok := s.cache.get(cacheKey); ok {
		return img, nil
	}

	positions, err := s.portfolioSvc.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(positions) == 0 {
		return nil, ErrNoData
	}

	historical, err := s.loadHistorical(positions, dateRange)
	if err != nil {
		return nil, err
	}

	series := analytics.CalculateValueSeries(positions, historical)
	if len(series) < 2 {
		return nil, ErrNoData
	}

	labels := make([]string, len(series))
	values := make([]float64, len(series))
	for i, point := range series {
		labels[i] = point.Date.Format("2006-01-02")
		values[i] = point.Value
	}

	seriesList := [][]float64{values}
	legend := []string{"Portfolio value"}
	if len(values) >= smaWindow {
		seriesList = append(seriesList, talib.Sma(values, smaWindow))
		legend = append(legend, fmt.Sprintf("SMA %d", smaWindow))
	}

	img, err := s.renderLine(seriesList, labels, legend, "Portfolio Value (EUR)")
	if err != nil {
		return nil, err
	}

	s.cache.set(cacheKey, img)
	return img, nil
}

// PriceChart renders the close price history of a single ticker with an
// SMA overlay.
func (s *Service) PriceChart(ticker string, dateRange string) ([]byte, error) {
	cacheKey := "price|" + ticker + "|" + dateRange
	if img, ok := s.cache.get(cacheKey); ok {
		return img, nil
	}

	prices, err := s.marketData.GetHistory(ticker, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	prices = filterByStartDate(prices, parseDateRange(dateRange))
	if len(prices) < 2 {
		return nil, ErrNoData
	}

	labels := make([]string, len(prices))
	values := make([]float64, len(prices))
	for i, p := range prices {
		labels[i] = p.Date
		values[i] = p.Close
	}

	seriesList := [][]float64{values}
	legend := []string{ticker}
	if len(values) >= smaWindow {
		seriesList = append(seriesList, talib.Sma(values, smaWindow))
		legend = append(legend, fmt.Sprintf("SMA %d", smaWindow))
	}

	img, err := s.renderLine(seriesList, labels, legend, ticker)
	if err != nil {
		return nil, err
	}

	s.cache.set(cacheKey, img)
	return img, nil
}

// AllocationChart renders the current allocation as a pie chart using
// last-known prices.
func (s *Service) AllocationChart() ([]byte, error) {
	cacheKey := "allocation"
	if img, ok := s.cache.get(cacheKey); ok {
		return img, nil
	}

	positions, err := s.portfolioSvc.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	allocation := analytics.CalculateAllocation(positions, s.marketData.CachedPrices())
	if len(allocation) == 0 {
		return nil, ErrNoData
	}

	tickers := make([]string, 0, len(allocation))
	for ticker := range allocation {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	values := make([]float64, 0, len(tickers))
	labels := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		values = append(values, allocation[ticker])
		labels = append(labels, fmt.Sprintf("%s (%.1f%%)", ticker, allocation[ticker]))
	}

	painter, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Portfolio Allocation"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render pie chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	s.cache.set(cacheKey, img)
	return img, nil
}

// ComparisonChart renders every held ticker's close series normalized to 100
// at the first common date, so relative performance is directly readable.
func (s *Service) ComparisonChart(dateRange string) ([]byte, error) {
	cacheKey := "comparison|" + dateRange
	if img, ok := s.cache.get(cacheKey); ok {
		return img, nil
	}

	positions, err := s.portfolioSvc.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(positions) == 0 {
		return nil, ErrNoData
	}

	historical, err := s.loadHistorical(positions, dateRange)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(historical))
	for ticker := range historical {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	dates, closes := analytics.InnerJoin(historical, tickers)
	if len(dates) < 2 {
		return nil, ErrNoData
	}

	labels := make([]string, len(dates))
	for i, date := range dates {
		labels[i] = date.Format("2006-01-02")
	}

	series := make([][]float64, len(tickers))
	for i, ticker := range tickers {
		values := make([]float64, len(dates))
		base := closes[labels[0]][ticker]
		for j, label := range labels {
			if base != 0 {
				values[j] = closes[label][ticker] / base * 100
			}
		}
		series[i] = values
	}

	img, err := s.renderLine(series, labels, tickers, "Relative Performance (base 100)")
	if err != nil {
		return nil, err
	}

	s.cache.set(cacheKey, img)
	return img, nil
}

// ReturnsChart renders period returns as a bar chart.
func (s *Service) ReturnsChart(period analytics.Period, dateRange string) ([]byte, error) {
	cacheKey := "returns|" + string(period) + "|" + dateRange
	if img, ok := s.cache.get(cacheKey); ok {
		return img, nil
	}

	positions, err := s.portfolioSvc.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(positions) == 0 {
		return nil, ErrNoData
	}

	historical, err := s.loadHistorical(positions, dateRange)
	if err != nil {
		return nil, err
	}

	returns := analytics.CalculateReturns(positions, historical, period)
	if len(returns) == 0 {
		return nil, ErrNoData
	}

	labels := make([]string, len(returns))
	values := make([]float64, len(returns))
	for i, r := range returns {
		labels[i] = r.Date.Format("2006-01-02")
		values[i] = r.Return * 100
	}

	painter, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s Returns (%%)", titlePeriod(period))),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	s.cache.set(cacheKey, img)
	return img, nil
}

func (s *Service) renderLine(series [][]float64, labels []string, legend []string, title string) ([]byte, error) {
	painter, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: legend,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render line chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return img, nil
}

// loadHistorical fetches stored daily prices for every held ticker and
// converts them to analytics series, dropping tickers with no history.
func (s *Service) loadHistorical(positions []portfolio.Position, dateRange string) (map[string]analytics.Series, error) {
	startDate := parseDateRange(dateRange)

	historical := make(map[string]analytics.Series)
	for _, pos := range positions {
		prices, err := s.marketData.GetHistory(pos.Ticker, 0)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", pos.Ticker).Msg("Failed to load price history")
			continue
		}
		prices = filterByStartDate(prices, startDate)
		if len(prices) == 0 {
			continue
		}
		historical[pos.Ticker] = analytics.SeriesFromDailyPrices(prices)
	}
	return historical, nil
}

// filterByStartDate keeps prices on or after startDate. ISO dates
// compare correctly as strings. Empty startDate keeps everything.
func filterByStartDate(prices []marketdata.DailyPrice, startDate string) []marketdata.DailyPrice {
	if startDate == "" {
		return prices
	}
	filtered := make([]marketdata.DailyPrice, 0, len(prices))
	for _, p := range prices {
		if p.Date >= startDate {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// parseDateRange converts a range label to a start date in YYYY-MM-DD
// format. "all" or unknown labels mean no lower bound.
func parseDateRange(rangeStr string) string {
	if rangeStr == "all" || rangeStr == "" {
		return ""
	}

	now := time.Now()
	var startDate time.Time

	switch rangeStr {
	case "1M":
		startDate = now.AddDate(0, -1, 0)
	case "3M":
		startDate = now.AddDate(0, -3, 0)
	case "6M":
		startDate = now.AddDate(0, -6, 0)
	case "1Y":
		startDate = now.AddDate(-1, 0, 0)
	case "5Y":
		startDate = now.AddDate(-5, 0, 0)
	case "10Y":
		startDate = now.AddDate(-10, 0, 0)
	default:
		return ""
	}

	return startDate.Format("2006-01-02")
}

func titlePeriod(period analytics.Period) string {
	switch period {
	case analytics.PeriodWeekly:
		return "Weekly"
	case analytics.PeriodMonthly:
		return "Monthly"
	default:
		return "Daily"
	}
}

package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/avarre/pea-tracker/internal/modules/marketdata"
	"github.com/avarre/pea-tracker/internal/modules/portfolio"
)

// Handler assembles engine inputs from the stores, runs the pure functions,
// and serializes the results. Empty results serialize as empty collections
// or zero values, never null.
type Handler struct {
	portfolioSvc *portfolio.Service
	marketData   *marketdata.Service
	riskFreeRate float64
	log          zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(
	portfolioSvc *portfolio.Service,
	marketData *marketdata.Service,
	riskFreeRate float64,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		portfolioSvc: portfolioSvc,
		marketData:   marketData,
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("handler", "analytics").Logger(),
	}
}

// Routes mounts the analytics routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Get("/returns", h.HandleReturns)
	r.Get("/risk", h.HandleRisk)
	r.Get("/correlation", h.HandleCorrelation)
}

// HandleSummary returns the KPI dashboard values: total value, invested,
// P&L, per-position values, and allocation percentages
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioSvc.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	prices := h.marketData.CachedPrices()

	totalValue := CalculatePortfolioValue(positions, prices)
	invested := CalculateTotalInvested(positions)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_value":     totalValue,
		"total_invested":  invested,
		"pnl":             totalValue - invested,
		"position_values": CalculatePositionValues(positions, prices),
		"allocation":      CalculateAllocation(positions, prices),
		"position_count":  len(positions),
	})
}

// HandleReturns returns the portfolio return series for a period
func (h *Handler) HandleReturns(w http.ResponseWriter, r *http.Request) {
	period := Period(r.URL.Query().Get("period"))
	if period == "" {
		period = PeriodDaily
	}
	if !period.Valid() {
		h.writeError(w, http.StatusBadRequest, "Invalid period: must be daily, weekly or monthly")
		return
	}

	positions, historical, err := h.loadHistorical(r)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	returns := CalculateReturns(positions, historical, period)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  period,
		"returns": returns,
	})
}

// HandleRisk returns volatility, Sharpe ratio, and maximum drawdown
func (h *Handler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	annualize := true
	if param := r.URL.Query().Get("annualize"); param != "" {
		if parsed, err := strconv.ParseBool(param); err == nil {
			annualize = parsed
		}
	}

	positions, historical, err := h.loadHistorical(r)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	values := CalculateValueSeries(positions, historical)
	returns := Values(CalculateReturns(positions, historical, PeriodDaily))

	rawValues := make([]float64, len(values))
	for i, v := range values {
		rawValues[i] = v.Value
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"volatility":     CalculateVolatility(returns, annualize),
		"sharpe_ratio":   CalculateSharpeRatio(returns, h.riskFreeRate, annualize),
		"max_drawdown":   CalculateMaxDrawdown(rawValues),
		"risk_free_rate": h.riskFreeRate,
		"annualized":     annualize,
		"observations":   len(returns),
	})
}

// HandleCorrelation returns the correlation matrix across held tickers
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	_, historical, err := h.loadHistorical(r)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, CalculateCorrelationMatrix(historical))
}

// loadHistorical loads positions and their stored historical series.
// The days query parameter bounds the series length (default 365).
func (h *Handler) loadHistorical(r *http.Request) ([]portfolio.Position, map[string]Series, error) {
	days := 365
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil && parsed > 0 {
			days = parsed
		}
	}

	positions, err := h.portfolioSvc.List()
	if err != nil {
		return nil, nil, err
	}

	tickers := make([]string, 0, len(positions))
	for _, pos := range positions {
		tickers = append(tickers, pos.Ticker)
	}

	histories, err := h.marketData.GetHistories(tickers, days)
	if err != nil {
		return nil, nil, err
	}

	historical := make(map[string]Series, len(histories))
	for ticker, prices := range histories {
		if len(prices) == 0 {
			continue // no local history yet; the engine logs the skip
		}
		historical[ticker] = SeriesFromDailyPrices(prices)
	}

	return positions, historical, nil
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

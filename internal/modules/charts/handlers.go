package charts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/avarre/pea-tracker/internal/modules/analytics"
)

// Handler handles chart HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// Routes mounts the chart routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{type}", h.HandleChart)
}

// HandleChart dispatches on the chart type and serves the rendered PNG.
// Supported query params: range (1M/3M/6M/1Y/5Y/10Y/all), period (returns
// chart only) and ticker (price chart only).
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	chartType := ChartType(chi.URLParam(r, "type"))
	if !chartType.Valid() {
		h.writeError(w, http.StatusBadRequest, "Unknown chart type: "+string(chartType))
		return
	}

	dateRange := r.URL.Query().Get("range")

	var (
		img []byte
		err error
	)
	switch chartType {
	case ChartValue:
		img, err = h.service.ValueChart(dateRange)
	case ChartAllocation:
		img, err = h.service.AllocationChart()
	case ChartReturns:
		period := analytics.Period(r.URL.Query().Get("period"))
		if period == "" {
			period = analytics.PeriodMonthly
		}
		if !period.Valid() {
			h.writeError(w, http.StatusBadRequest, "Invalid period: must be daily, weekly or monthly")
			return
		}
		img, err = h.service.ReturnsChart(period, dateRange)
	case ChartPrice:
		ticker := r.URL.Query().Get("ticker")
		if ticker == "" {
			h.writeError(w, http.StatusBadRequest, "Missing ticker query parameter")
			return
		}
		img, err = h.service.PriceChart(ticker, dateRange)
	case ChartComparison:
		img, err = h.service.ComparisonChart(dateRange)
	}

	h.writeImage(w, img, err)
}

func (h *Handler) writeImage(w http.ResponseWriter, img []byte, err error) {
	if err != nil {
		if errors.Is(err, ErrNoData) {
			h.writeError(w, http.StatusNotFound, "Not enough data to render chart")
			return
		}
		h.log.Error().Err(err).Msg("Failed to render chart")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

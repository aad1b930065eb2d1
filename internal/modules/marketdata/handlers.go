package marketdata

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market data HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "marketdata").Logger(),
	}
}

// Routes mounts the market data routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleGetPrices)
	r.Post("/refresh", h.HandleRefresh)
	r.Get("/history/{ticker}", h.HandleGetHistory)
}

// HandleGetPrices returns last-known prices from the cache
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"prices": h.service.CachedPrices(),
	})
}

// HandleRefresh fetches fresh prices for the requested tickers
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tickers []string `json:"tickers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body.Tickers) == 0 {
		h.writeError(w, http.StatusBadRequest, "No tickers provided")
		return
	}

	prices := h.service.FetchPrices(body.Tickers)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"requested": len(body.Tickers),
		"fetched":   len(prices),
		"prices":    prices,
	})
}

// HandleGetHistory returns stored daily prices for a ticker
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	days := 0 // full series
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil && parsed > 0 {
			days = parsed
		}
	}

	prices, err := h.service.GetHistory(ticker, days)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"prices": prices,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

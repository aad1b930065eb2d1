package portfolio

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service      *Service
	snapshotRepo *SnapshotRepository
	log          zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *Service, snapshotRepo *SnapshotRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		snapshotRepo: snapshotRepo,
		log:          log.With().Str("handler", "portfolio").Logger(),
	}
}

// Routes mounts the portfolio routes
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/positions", h.HandleAdd)
	r.Put("/positions/{ticker}", h.HandleUpdate)
	r.Delete("/positions/{ticker}", h.HandleRemove)
	r.Put("/positions/{ticker}/manual-price", h.HandleSetManualPrice)
	r.Delete("/positions/{ticker}/manual-price", h.HandleClearManualPrice)
	r.Get("/export/csv", h.HandleExportCSV)
	r.Post("/import/csv", h.HandleImportCSV)
	r.Get("/history", h.HandleHistory)
}

// HandleList returns all positions
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions": positions,
	})
}

// HandleAdd creates a new position
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var pos Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Add(pos); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, pos)
}

// HandleUpdate replaces an existing position
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	var pos Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(ticker, pos); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, pos)
}

// HandleRemove deletes a position
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if err := h.service.Remove(ticker); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"removed": ticker})
}

// HandleSetManualPrice sets the manual price override
func (h *Handler) HandleSetManualPrice(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.SetManualPrice(ticker, body.Price); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       ticker,
		"manual_price": body.Price,
	})
}

// HandleClearManualPrice clears the manual price override
func (h *Handler) HandleClearManualPrice(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if err := h.service.ClearManualPrice(ticker); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"ticker": ticker})
}

// HandleExportCSV streams the portfolio as CSV
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.List()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)

	if err := ExportCSV(w, positions); err != nil {
		h.log.Error().Err(err).Msg("Failed to export CSV")
	}
}

// HandleImportCSV replaces the portfolio from an uploaded CSV body
func (h *Handler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	positions, err := ImportCSV(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Import(positions); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(positions),
	})
}

// HandleHistory returns daily valuation snapshots
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	// Default to 90 days
	days := 90
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if parsed, err := strconv.Atoi(daysParam); err == nil && parsed > 0 {
			days = parsed
		}
	}

	snapshots, err := h.snapshotRepo.GetHistory(days)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
	})
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

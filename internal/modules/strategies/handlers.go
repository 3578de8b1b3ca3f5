package strategies

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
	"github.com/elysia/ecocycle/internal/modules/calibration"
)

// Handler handles strategy comparison HTTP requests
type Handler struct {
	calibration *calibration.Service
	simulator   *Simulator
	events      *events.Manager
	log         zerolog.Logger
}

// NewHandler creates a new strategies handler
func NewHandler(cal *calibration.Service, sim *Simulator, ev *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		calibration: cal,
		simulator:   sim,
		events:      ev,
		log:         log.With().Str("handler", "strategies").Logger(),
	}
}

type compareRequest struct {
	calibration.Params
	Strategies []Config `json:"strategies,omitempty"`
}

// HandleCompare runs the 3-year projection for every strategy and
// returns them ranked by ROI
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	baseline, err := h.calibration.Calibrate(req.Params)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	results, err := h.simulator.Compare(baseline, req.Strategies)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	best := ""
	if len(results) > 0 {
		best = results[0].StrategyID
	}
	h.events.Emit(events.StrategiesCompared, "strategies", map[string]interface{}{
		"strategy_count": len(results),
		"best":           best,
	})

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"baseline":   baseline,
		"strategies": results,
	})
}

// HandleListStrategies returns the built-in strategy catalog
func (h *Handler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": DefaultConfigs(),
	})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsReferenceNotFound(err):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

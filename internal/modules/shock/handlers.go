package shock

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
	"github.com/elysia/ecocycle/internal/modules/calibration"
)

// Handler handles shock HTTP requests
type Handler struct {
	calibration *calibration.Service
	calculator  *Calculator
	events      *events.Manager
	log         zerolog.Logger
}

// NewHandler creates a new shock handler
func NewHandler(cal *calibration.Service, calc *Calculator, ev *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		calibration: cal,
		calculator:  calc,
		events:      ev,
		log:         log.With().Str("handler", "shock").Logger(),
	}
}

// HandleCompute calibrates the posted fleet parameters and returns the
// stranded-value and avoidable-CO2 figures
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var params calibration.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	baseline, err := h.calibration.Calibrate(params)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result, err := h.calculator.Compute(baseline)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.events.Emit(events.ShockComputed, "shock", map[string]interface{}{
		"stranded_value_eur": result.StrandedValueEUR,
		"avoidable_co2_kg":   result.AvoidableCO2Kg,
	})

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"baseline": baseline,
		"shock":    result,
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

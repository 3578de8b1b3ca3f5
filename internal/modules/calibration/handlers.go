package calibration

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
)

// Handler handles calibration HTTP requests
type Handler struct {
	service *Service
	events  *events.Manager
	log     zerolog.Logger
}

// NewHandler creates a new calibration handler
func NewHandler(service *Service, ev *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		events:  ev,
		log:     log.With().Str("handler", "calibration").Logger(),
	}
}

// HandleCalibrate validates fleet parameters and returns the baseline
func (h *Handler) HandleCalibrate(w http.ResponseWriter, r *http.Request) {
	var params Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	baseline, err := h.service.Calibrate(params)
	if err != nil {
		switch {
		case domain.IsValidationError(err):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case domain.IsReferenceNotFound(err):
			h.writeError(w, http.StatusNotFound, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.events.Emit(events.BaselineCalibrated, "calibration", map[string]interface{}{
		"fleet_size": baseline.FleetSize,
		"geography":  baseline.Geography,
	})
	h.writeJSON(w, http.StatusOK, baseline)
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

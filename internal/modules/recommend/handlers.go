package recommend

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	engine  *Engine
	weights domain.ScoringWeights
	events  *events.Manager
	log     zerolog.Logger
}

// NewHandler creates a new recommendation handler. The weights are the
// server defaults, overridable per request.
func NewHandler(engine *Engine, weights domain.ScoringWeights, ev *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		weights: weights,
		events:  ev,
		log:     log.With().Str("handler", "recommend").Logger(),
	}
}

type recommendRequest struct {
	Device  domain.Device          `json:"device"`
	Weights *domain.ScoringWeights `json:"weights,omitempty"`
}

// HandleRecommend scores one device across its eligible scenarios
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	weights := h.weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	result, err := h.engine.Recommend(req.Device, weights)
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

	h.events.Emit(events.RecommendationIssued, "recommend", map[string]interface{}{
		"device_class":   req.Device.Class,
		"recommendation": string(result.Recommendation),
		"urgency":        result.Urgency,
	})
	h.writeJSON(w, http.StatusOK, result)
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

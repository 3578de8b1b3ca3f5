package fleet

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
)

// Handler handles fleet audit HTTP requests
type Handler struct {
	analyzer *Analyzer
	repo     *Repository
	weights  domain.ScoringWeights
	log      zerolog.Logger
}

// NewHandler creates a new fleet handler. The weights are the server
// defaults, overridable per request.
func NewHandler(analyzer *Analyzer, repo *Repository, weights domain.ScoringWeights, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		repo:     repo,
		weights:  weights,
		log:      log.With().Str("handler", "fleet").Logger(),
	}
}

type auditRequest struct {
	Devices []domain.Device        `json:"devices"`
	Weights *domain.ScoringWeights `json:"weights,omitempty"`
	Persist bool                   `json:"persist"`
}

// HandleAudit runs a batch audit over the posted devices
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	weights := h.weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	analyses, err := h.analyzer.Analyze(r.Context(), req.Devices, weights)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	summary := h.analyzer.Summarize(analyses)

	resp := map[string]interface{}{
		"summary": summary,
		"devices": analyses,
	}

	if req.Persist {
		geography := ""
		if len(req.Devices) > 0 {
			geography = req.Devices[0].Geography
		}
		runID, err := h.repo.SaveRun(geography, analyses, summary)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["run_id"] = runID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleListRuns returns stored audit runs, newest first
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": runs,
	})
}

// HandleGetRun returns one stored audit run with its devices
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	run, err := h.repo.GetRun(runID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
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

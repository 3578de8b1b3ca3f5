package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
)

// Handler exposes the reference catalog over HTTP, read-only
type Handler struct {
	catalog *Catalog
	log     zerolog.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(cat *Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		catalog: cat,
		log:     log.With().Str("handler", "catalog").Logger(),
	}
}

// HandleListPersonas returns all persona profiles
func (h *Handler) HandleListPersonas(w http.ResponseWriter, r *http.Request) {
	ids := h.catalog.PersonaIDs()
	personas := make([]PersonaProfile, 0, len(ids))
	for _, id := range ids {
		p, _ := h.catalog.Persona(id)
		personas = append(personas, p)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"personas": personas})
}

// HandleListDeviceClasses returns all device classes
func (h *Handler) HandleListDeviceClasses(w http.ResponseWriter, r *http.Request) {
	ids := h.catalog.DeviceClassIDs()
	classes := make([]DeviceClass, 0, len(ids))
	for _, id := range ids {
		c, _ := h.catalog.DeviceClass(id)
		classes = append(classes, c)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"device_classes": classes})
}

// HandleListGeographies returns all geographies
func (h *Handler) HandleListGeographies(w http.ResponseWriter, r *http.Request) {
	ids := h.catalog.GeographyIDs()
	geos := make([]Geography, 0, len(ids))
	for _, id := range ids {
		g, _ := h.catalog.Geography(id)
		geos = append(geos, g)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"geographies": geos})
}

// HandleGetGeography returns one geography by ID
func (h *Handler) HandleGetGeography(w http.ResponseWriter, r *http.Request) {
	g, err := h.catalog.Geography(chi.URLParam(r, "id"))
	if err != nil {
		if domain.IsReferenceNotFound(err) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, g)
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

package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/service"
)

// AreaHandler serves /api/v1/areas.
type AreaHandler struct {
	areas  *service.AreaService
	logger *zap.Logger
}

func NewAreaHandler(areas *service.AreaService, logger *zap.Logger) *AreaHandler {
	return &AreaHandler{areas: areas, logger: logger}
}

type areaPayload struct {
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

func (h *AreaHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		incluirInactivas := r.URL.Query().Get("incluir_inactivas") == "true"
		items, err := h.areas.ListAreas(r.Context(), incluirInactivas)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
	case http.MethodPost:
		var payload areaPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		area, err := h.areas.CreateArea(r.Context(), payload.Nombre)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(area))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *AreaHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/areas/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		area, err := h.areas.GetArea(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(area))
	case http.MethodPut:
		var payload areaPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		area, err := h.areas.UpdateArea(r.Context(), id, payload.Nombre, payload.Activo)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(area))
	case http.MethodDelete:
		// Areas are disabled, never hard-deleted; labels under them keep
		// their audit trail.
		if err := h.areas.DisableArea(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"area_id": id, "activo": false}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

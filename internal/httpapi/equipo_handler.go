package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
	"github.com/Franchi22/SafetyLabels/internal/service"
)

// EquipoHandler serves /api/v1/equipos.
type EquipoHandler struct {
	equipos *service.EquipoService
	logger  *zap.Logger
}

func NewEquipoHandler(equipos *service.EquipoService, logger *zap.Logger) *EquipoHandler {
	return &EquipoHandler{equipos: equipos, logger: logger}
}

type equipoPayload struct {
	Tipo   int    `json:"tipo"`
	Codigo string `json:"codigo"`
	AreaID string `json:"area_id"`
	Activo bool   `json:"activo"`
}

func (h *EquipoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := repository.EquiposFilter{
			AreaID:           r.URL.Query().Get("area_id"),
			IncluirInactivos: r.URL.Query().Get("incluir_inactivos") == "true",
		}
		items, err := h.equipos.ListEquipos(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
	case http.MethodPost:
		var payload equipoPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		equipo, err := h.equipos.CreateEquipo(r.Context(), service.CreateEquipoRequest{
			Tipo:   domain.TipoEquipo(payload.Tipo),
			Codigo: payload.Codigo,
			AreaID: payload.AreaID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(equipo))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *EquipoHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/equipos/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		equipo, err := h.equipos.GetEquipo(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(equipo))
	case http.MethodPut:
		var payload equipoPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		equipo, err := h.equipos.UpdateEquipo(r.Context(), service.UpdateEquipoRequest{
			EquipoID: id,
			Tipo:     domain.TipoEquipo(payload.Tipo),
			Codigo:   payload.Codigo,
			AreaID:   payload.AreaID,
			Activo:   payload.Activo,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(equipo))
	case http.MethodDelete:
		// Hard delete cascades to labels and their historial.
		if err := h.equipos.DeleteEquipo(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"equipo_id": id, "deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

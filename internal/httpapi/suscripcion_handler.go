package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/service"
)

// SuscripcionHandler serves /api/v1/suscripciones.
type SuscripcionHandler struct {
	suscripciones *service.SuscripcionService
	logger        *zap.Logger
}

func NewSuscripcionHandler(suscripciones *service.SuscripcionService, logger *zap.Logger) *SuscripcionHandler {
	return &SuscripcionHandler{suscripciones: suscripciones, logger: logger}
}

type suscripcionPayload struct {
	AreaID     *string `json:"area_id"`
	EquipoID   *string `json:"equipo_id"`
	LabelID    *string `json:"label_id"`
	Email      string  `json:"email"`
	UmbralDias *int    `json:"umbral_dias"`
	Activo     *bool   `json:"activo"`
}

func (h *SuscripcionHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		incluirInactivas := r.URL.Query().Get("incluir_inactivas") == "true"
		items, err := h.suscripciones.ListSuscripciones(r.Context(), incluirInactivas)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
	case http.MethodPost:
		var payload suscripcionPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		sub, err := h.suscripciones.CreateSuscripcion(r.Context(), service.CreateSuscripcionRequest{
			AreaID:     payload.AreaID,
			EquipoID:   payload.EquipoID,
			LabelID:    payload.LabelID,
			Email:      payload.Email,
			UmbralDias: payload.UmbralDias,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok(sub))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *SuscripcionHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/suscripciones/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sub, err := h.suscripciones.GetSuscripcion(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(sub))
	case http.MethodPut:
		var payload suscripcionPayload
		if err := readBodyJSON(r, 1<<20, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
			return
		}
		umbral := domain.DefaultUmbralDias
		if payload.UmbralDias != nil {
			umbral = *payload.UmbralDias
		}
		activo := true
		if payload.Activo != nil {
			activo = *payload.Activo
		}
		sub, err := h.suscripciones.UpdateSuscripcion(r.Context(), service.UpdateSuscripcionRequest{
			SuscripcionID: id,
			AreaID:        payload.AreaID,
			EquipoID:      payload.EquipoID,
			LabelID:       payload.LabelID,
			Email:         payload.Email,
			UmbralDias:    umbral,
			Activo:        activo,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(sub))
	case http.MethodDelete:
		if err := h.suscripciones.DeleteSuscripcion(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"suscripcion_id": id, "deleted": true}))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

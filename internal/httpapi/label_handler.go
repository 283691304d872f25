package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
	"github.com/Franchi22/SafetyLabels/internal/service"
)

const maxBodyBytes = 4 << 20 // room for inline foto blobs

// LabelHandler serves /api/v1/labels.
type LabelHandler struct {
	labels        *service.LabelService
	defaultUmbral int
	logger        *zap.Logger
}

func NewLabelHandler(labels *service.LabelService, defaultUmbral int, logger *zap.Logger) *LabelHandler {
	return &LabelHandler{
		labels:        labels,
		defaultUmbral: defaultUmbral,
		logger:        logger,
	}
}

type createLabelPayload struct {
	EquipoID         string  `json:"equipo_id"`
	FechaVencimiento string  `json:"fecha_vencimiento"`
	CreadoPor        string  `json:"creado_por"`
	Observacion      *string `json:"observacion"`
	FotoURL          *string `json:"foto_url"`
	FotoBlob         []byte  `json:"foto_blob"`
	FotoContentType  *string `json:"foto_content_type"`
}

type renewLabelPayload struct {
	ExpectedRevision int     `json:"expected_revision"`
	FechaVencimiento string  `json:"fecha_vencimiento"`
	Usuario          string  `json:"usuario"`
	Comentario       *string `json:"comentario"`
	Observacion      *string `json:"observacion"`
	FotoURL          *string `json:"foto_url"`
	FotoBlob         []byte  `json:"foto_blob"`
	FotoContentType  *string `json:"foto_content_type"`
}

// parseFecha accepts both date-only and RFC3339 expiry dates. Dates are
// compared at day granularity, so date-only input is the common case.
func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Collection handles GET (list) and POST (create) on /api/v1/labels.
func (h *LabelHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *LabelHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := repository.LabelsFilter{
		AreaID:   r.URL.Query().Get("area_id"),
		EquipoID: r.URL.Query().Get("equipo_id"),
	}
	umbral := parseInt(r.URL.Query().Get("umbral_dias"), h.defaultUmbral)
	soloEstado := domain.EstadoVencimiento(r.URL.Query().Get("estado"))

	items, err := h.labels.ListLabels(r.Context(), filter, umbral, soloEstado)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": items,
		"total": len(items),
	}))
}

func (h *LabelHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload createLabelPayload
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	vence, err := parseFecha(payload.FechaVencimiento)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid fecha_vencimiento"))
		return
	}

	creadoPor := payload.CreadoPor
	if creadoPor == "" {
		creadoPor = UsuarioFrom(r.Context())
	}

	label, err := h.labels.CreateLabel(r.Context(), service.CreateLabelRequest{
		EquipoID:         payload.EquipoID,
		FechaVencimiento: vence,
		CreadoPor:        creadoPor,
		Observacion:      payload.Observacion,
		FotoURL:          payload.FotoURL,
		FotoBlob:         payload.FotoBlob,
		FotoContentType:  payload.FotoContentType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(label))
}

// Item routes /api/v1/labels/{id}, /api/v1/labels/{id}/renovar and
// /api/v1/labels/{id}/historial.
func (h *LabelHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/labels/")
	if rest == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	id := rest
	action := ""
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		id, action = rest[:idx], rest[idx+1:]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.get(w, r, id)
	case "renovar":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.renew(w, r, id)
	case "historial":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.historial(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *LabelHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	umbral := parseInt(r.URL.Query().Get("umbral_dias"), h.defaultUmbral)
	label, err := h.labels.GetLabel(r.Context(), id, umbral)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(label))
}

func (h *LabelHandler) renew(w http.ResponseWriter, r *http.Request, id string) {
	var payload renewLabelPayload
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	vence, err := parseFecha(payload.FechaVencimiento)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid fecha_vencimiento"))
		return
	}

	usuario := payload.Usuario
	if usuario == "" {
		usuario = UsuarioFrom(r.Context())
	}

	label, hist, err := h.labels.RenewLabel(r.Context(), service.RenewLabelRequest{
		LabelID:          id,
		ExpectedRevision: payload.ExpectedRevision,
		FechaVencimiento: vence,
		Usuario:          usuario,
		Comentario:       payload.Comentario,
		Observacion:      payload.Observacion,
		FotoURL:          payload.FotoURL,
		FotoBlob:         payload.FotoBlob,
		FotoContentType:  payload.FotoContentType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"label":     label,
		"historial": hist,
	}))
}

func (h *LabelHandler) historial(w http.ResponseWriter, r *http.Request, id string) {
	items, err := h.labels.ListHistorial(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": items,
		"total": len(items),
	}))
}

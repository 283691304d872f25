package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
	"github.com/Franchi22/SafetyLabels/internal/service"
)

type apiFixture struct {
	router *Router
	store  *repository.MemoryStore
	area   domain.Area
	equipo domain.Equipo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()

	areaSvc := service.NewAreaService(store, store, logger)
	equipoSvc := service.NewEquipoService(store, store, logger)
	labelSvc := service.NewLabelService(store, store, logger)
	subSvc := service.NewSuscripcionService(store, store, store, store, logger)

	router := NewRouter(logger)
	router.RegisterRoutes(
		nil, // no auth in these tests
		NewAreaHandler(areaSvc, logger),
		NewEquipoHandler(equipoSvc, logger),
		NewLabelHandler(labelSvc, 30, logger),
		NewExportHandler(labelSvc, 30, logger),
		NewSuscripcionHandler(subSvc, logger),
	)

	area, err := areaSvc.CreateArea(ctx, "Empaque")
	require.NoError(t, err)
	equipo, err := equipoSvc.CreateEquipo(ctx, service.CreateEquipoRequest{
		Tipo: domain.TipoEtiquetadora, Codigo: "ETIQ-01", AreaID: area.ID,
	})
	require.NoError(t, err)

	return &apiFixture{router: router, store: store, area: *area, equipo: *equipo}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) Result[map[string]any] {
	t.Helper()
	var res Result[map[string]any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func (f *apiFixture) createLabel(t *testing.T, vence string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/labels", map[string]any{
		"equipo_id":         f.equipo.ID,
		"fecha_vencimiento": vence,
		"creado_por":        "operator",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	return res.Result["label_id"].(string)
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestLabelAPI_CreateAndGet(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createLabel(t, futureDate(90))

	rec := f.do(t, http.MethodGet, "/api/v1/labels/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, "ok", res.Result["estado"])
	assert.Equal(t, float64(1), res.Result["revision"])
}

func TestLabelAPI_RenovarFlow(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createLabel(t, futureDate(5))

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/labels/%s/renovar", id), map[string]any{
		"expected_revision": 1,
		"fecha_vencimiento": futureDate(180),
		"usuario":           "supervisor",
		"comentario":        "renovacion anual",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	label := res.Result["label"].(map[string]any)
	hist := res.Result["historial"].(map[string]any)
	assert.Equal(t, float64(2), label["revision"])
	assert.Equal(t, float64(1), hist["revision_anterior"])
	assert.Equal(t, float64(2), hist["revision_nueva"])

	// Stale retry returns 409 with the error envelope.
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/labels/%s/renovar", id), map[string]any{
		"expected_revision": 1,
		"fecha_vencimiento": futureDate(360),
		"usuario":           "intruder",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	var fail Result[any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fail))
	assert.Equal(t, ResultError, fail.Code)
	assert.Equal(t, "error", fail.Type)
}

func TestLabelAPI_Historial(t *testing.T) {
	f := newAPIFixture(t)
	id := f.createLabel(t, futureDate(5))

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/labels/%s/renovar", id), map[string]any{
		"expected_revision": 1,
		"fecha_vencimiento": futureDate(180),
		"usuario":           "supervisor",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/labels/%s/historial", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, float64(2), res.Result["total"])
}

func TestLabelAPI_Validation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/labels", map[string]any{
		"equipo_id":         f.equipo.ID,
		"fecha_vencimiento": "not-a-date",
		"creado_por":        "operator",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/labels", map[string]any{
		"equipo_id":         f.equipo.ID,
		"fecha_vencimiento": futureDate(30),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/labels/no-such-label", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLabelAPI_ListWithEstadoFilter(t *testing.T) {
	f := newAPIFixture(t)
	f.createLabel(t, futureDate(5))
	f.createLabel(t, futureDate(365))

	rec := f.do(t, http.MethodGet, "/api/v1/labels?estado=proximo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, float64(1), res.Result["total"])

	rec = f.do(t, http.MethodGet, "/api/v1/labels?umbral_dias=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decodeResult(t, rec)
	assert.Equal(t, float64(2), res.Result["total"])
}

func TestAreaAPI_DisableRefusedWithEquipos(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/v1/areas/"+f.area.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/equipos/"+f.equipo.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/areas/"+f.area.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSuscripcionAPI_CreateWithDefaults(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/suscripciones", map[string]any{
		"area_id": f.area.ID,
		"email":   "turno@planta.example",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decodeResult(t, rec)
	assert.Equal(t, float64(domain.DefaultUmbralDias), res.Result["umbral_dias"])

	rec = f.do(t, http.MethodPost, "/api/v1/suscripciones", map[string]any{
		"email": "turno@planta.example",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

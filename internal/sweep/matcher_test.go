package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

var matchNow = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

func contexto(labelID, equipoID, areaID string, vence time.Time) repository.LabelContexto {
	lc := repository.LabelContexto{
		EquipoCodigo: "EQ-" + equipoID,
		AreaID:       areaID,
		AreaNombre:   "Area " + areaID,
	}
	lc.ID = labelID
	lc.EquipoID = equipoID
	lc.Revision = 1
	lc.FechaVencimiento = vence
	return lc
}

func strptr(s string) *string { return &s }

func TestComputeIntents_ScopeHierarchy(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, 5)),
		contexto("lbl-2", "eq-2", "area-2", matchNow.AddDate(0, 0, 5)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub-area", AreaID: strptr("area-1"), Email: "a@x.example", UmbralDias: 30, Activo: true},
		{ID: "sub-equipo", EquipoID: strptr("eq-2"), Email: "e@x.example", UmbralDias: 30, Activo: true},
		{ID: "sub-label", LabelID: strptr("lbl-1"), Email: "l@x.example", UmbralDias: 30, Activo: true},
	}

	intents := ComputeIntents(labels, subs, matchNow)
	require.Len(t, intents, 3)

	byKey := make(map[string]AlertIntent)
	for _, it := range intents {
		byKey[it.SuscripcionID+"|"+it.LabelID] = it
	}
	assert.Contains(t, byKey, "sub-area|lbl-1")
	assert.Contains(t, byKey, "sub-equipo|lbl-2")
	assert.Contains(t, byKey, "sub-label|lbl-1")

	it := byKey["sub-area|lbl-1"]
	assert.Equal(t, domain.EstadoProximo, it.Estado)
	assert.Equal(t, 5, it.DiasRestantes)
	assert.Equal(t, "a@x.example", it.Email)
}

func TestComputeIntents_PerSubscriptionUmbral(t *testing.T) {
	// 10 days out: inside a 30-day umbral, outside a 3-day one.
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, 10)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub-wide", AreaID: strptr("area-1"), Email: "w@x.example", UmbralDias: 30, Activo: true},
		{ID: "sub-narrow", AreaID: strptr("area-1"), Email: "n@x.example", UmbralDias: 3, Activo: true},
	}

	intents := ComputeIntents(labels, subs, matchNow)
	require.Len(t, intents, 1)
	assert.Equal(t, "sub-wide", intents[0].SuscripcionID)
}

func TestComputeIntents_ExpiredAlwaysFires(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, -3)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub-zero", AreaID: strptr("area-1"), Email: "z@x.example", UmbralDias: 0, Activo: true},
	}

	intents := ComputeIntents(labels, subs, matchNow)
	require.Len(t, intents, 1)
	assert.Equal(t, domain.EstadoVencido, intents[0].Estado)
	assert.Equal(t, -3, intents[0].DiasRestantes)
}

func TestComputeIntents_OkLabelsEmitNothing(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(1, 0, 0)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub", AreaID: strptr("area-1"), Email: "a@x.example", UmbralDias: 30, Activo: true},
	}

	assert.Empty(t, ComputeIntents(labels, subs, matchNow))
}

func TestComputeIntents_InactiveAndUnscopedSubscriptions(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, -1)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub-off", AreaID: strptr("area-1"), Email: "off@x.example", UmbralDias: 30, Activo: false},
		{ID: "sub-global", Email: "global@x.example", UmbralDias: 30, Activo: true},
	}

	// Inactive subscriptions never match; neither does a subscription
	// with no scope fields set.
	assert.Empty(t, ComputeIntents(labels, subs, matchNow))
}

func TestComputeIntents_AtMostOneIntentPerPair(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, -1)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub", AreaID: strptr("area-1"), Email: "a@x.example", UmbralDias: 30, Activo: true},
	}

	intents := ComputeIntents(labels, subs, matchNow)
	require.Len(t, intents, 1)

	pairs := make(map[string]int)
	for _, it := range intents {
		pairs[it.SuscripcionID+"|"+it.LabelID]++
	}
	for pair, n := range pairs {
		assert.Equal(t, 1, n, "duplicate intent for %s", pair)
	}
}

func TestComputeIntents_SuccessiveSweepsReEmit(t *testing.T) {
	labels := []repository.LabelContexto{
		contexto("lbl-1", "eq-1", "area-1", matchNow.AddDate(0, 0, -1)),
	}
	subs := []domain.SuscripcionAlerta{
		{ID: "sub", AreaID: strptr("area-1"), Email: "a@x.example", UmbralDias: 30, Activo: true},
	}

	first := ComputeIntents(labels, subs, matchNow)
	second := ComputeIntents(labels, subs, matchNow.Add(time.Hour))
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

func TestAreaService_CreateAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	area, err := f.areas.CreateArea(ctx, "  Bodega Norte  ")
	require.NoError(t, err)
	assert.Equal(t, "Bodega Norte", area.Nombre)
	assert.True(t, area.Activo)

	_, err = f.areas.CreateArea(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.areas.CreateArea(ctx, strings.Repeat("x", domain.MaxAreaNombre+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.areas.CreateArea(ctx, "Bodega Norte")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAreaService_DisableRefusedWhileEquiposActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.areas.DisableArea(ctx, f.area.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.equipos.DisableEquipo(ctx, f.equipo.ID))
	require.NoError(t, f.areas.DisableArea(ctx, f.area.ID))

	area, err := f.areas.GetArea(ctx, f.area.ID)
	require.NoError(t, err)
	assert.False(t, area.Activo)
}

func TestEquipoService_CreateChecksArea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	equipo, err := f.equipos.CreateEquipo(ctx, CreateEquipoRequest{
		Tipo: domain.TipoConveyor, Codigo: "CONV-01", AreaID: f.area.ID,
	})
	require.NoError(t, err)
	assert.True(t, equipo.Activo)

	_, err = f.equipos.CreateEquipo(ctx, CreateEquipoRequest{
		Tipo: domain.TipoConveyor, Codigo: "CONV-01", AreaID: f.area.ID,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	otra, err := f.areas.CreateArea(ctx, "Fuera de servicio")
	require.NoError(t, err)
	require.NoError(t, f.areas.DisableArea(ctx, otra.ID))

	_, err = f.equipos.CreateEquipo(ctx, CreateEquipoRequest{
		Tipo: domain.TipoConveyor, Codigo: "CONV-02", AreaID: otra.ID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEquipoService_DeleteCascadesLabels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	label := f.createLabel(t, testNow.AddDate(0, 1, 0))

	require.NoError(t, f.equipos.DeleteEquipo(ctx, f.equipo.ID))

	_, err := f.store.GetLabel(ctx, label.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hist, err := f.store.ListHistorial(ctx, label.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestSuscripcionService_ScopeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subs := NewSuscripcionService(f.store, f.store, f.store, f.store, f.labels.logger)

	t.Run("area scope with default threshold", func(t *testing.T) {
		sub, err := subs.CreateSuscripcion(ctx, CreateSuscripcionRequest{
			AreaID: &f.area.ID, Email: "turno@planta.example",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultUmbralDias, sub.UmbralDias)
		assert.True(t, sub.Activo)
	})

	t.Run("no scope rejected", func(t *testing.T) {
		_, err := subs.CreateSuscripcion(ctx, CreateSuscripcionRequest{
			Email: "turno@planta.example",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("multiple scopes rejected", func(t *testing.T) {
		_, err := subs.CreateSuscripcion(ctx, CreateSuscripcionRequest{
			AreaID: &f.area.ID, EquipoID: &f.equipo.ID,
			Email: "turno@planta.example",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("dangling equipo scope rejected", func(t *testing.T) {
		missing := "no-such-equipo"
		_, err := subs.CreateSuscripcion(ctx, CreateSuscripcionRequest{
			EquipoID: &missing, Email: "turno@planta.example",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSuscripcionService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	subs := NewSuscripcionService(f.store, f.store, f.store, f.store, f.labels.logger)

	sub, err := subs.CreateSuscripcion(ctx, CreateSuscripcionRequest{
		AreaID: &f.area.ID, Email: "turno@planta.example",
	})
	require.NoError(t, err)

	updated, err := subs.UpdateSuscripcion(ctx, UpdateSuscripcionRequest{
		SuscripcionID: sub.ID, AreaID: &f.area.ID,
		Email: "jefe@planta.example", UmbralDias: 7, Activo: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.UmbralDias)
	assert.False(t, updated.Activo)

	activas, err := subs.ListSuscripciones(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, activas)

	require.NoError(t, subs.DeleteSuscripcion(ctx, sub.ID))
	_, err = subs.GetSuscripcion(ctx, sub.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

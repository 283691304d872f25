package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

func seedMemoryStore(t *testing.T) (*MemoryStore, domain.Area, domain.Equipo, domain.Label) {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()

	area := domain.Area{ID: uuid.New().String(), Nombre: "Empaque", Activo: true}
	require.NoError(t, store.CreateArea(ctx, &area))

	equipo := domain.Equipo{
		ID: uuid.New().String(), Tipo: domain.TipoConveyor,
		Codigo: "CONV-01", AreaID: area.ID, Activo: true,
	}
	require.NoError(t, store.CreateEquipo(ctx, &equipo))

	now := time.Now().UTC()
	label := domain.Label{
		ID: uuid.New().String(), EquipoID: equipo.ID,
		FechaCreacion: now, FechaActualizacion: now,
		FechaVencimiento: now.AddDate(0, 6, 0), Revision: 1, CreadoPor: "operator",
	}
	first := domain.HistorialLabel{
		ID: uuid.New().String(), LabelID: label.ID, FechaCambio: now,
		RevisionNueva: 1, Usuario: "operator",
	}
	require.NoError(t, store.CreateLabel(ctx, &label, &first))

	return store, area, equipo, label
}

func TestMemoryStore_DeleteEquipoCascades(t *testing.T) {
	ctx := context.Background()
	store, _, equipo, label := seedMemoryStore(t)

	require.NoError(t, store.DeleteEquipo(ctx, equipo.ID))

	_, err := store.GetLabel(ctx, label.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chain, err := store.ListHistorial(ctx, label.ID)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestMemoryStore_SaveLabelOptimisticConcurrency(t *testing.T) {
	ctx := context.Background()
	store, _, _, label := seedMemoryStore(t)

	prev := label.Revision
	updated := label
	updated.Revision = prev + 1
	updated.FechaVencimiento = label.FechaVencimiento.AddDate(1, 0, 0)
	hist := domain.HistorialLabel{
		ID: uuid.New().String(), LabelID: label.ID, FechaCambio: time.Now().UTC(),
		RevisionAnterior: &prev, RevisionNueva: prev + 1, Usuario: "supervisor",
	}

	require.NoError(t, store.SaveLabel(ctx, &updated, prev, &hist))

	// Replaying with the stale expected revision must fail and leave state
	// untouched.
	err := store.SaveLabel(ctx, &updated, prev, &hist)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := store.GetLabel(ctx, label.ID)
	require.NoError(t, err)
	assert.Equal(t, prev+1, stored.Revision)

	chain, err := store.ListHistorial(ctx, label.ID)
	require.NoError(t, err)
	assert.Len(t, chain, 2)
}

func TestMemoryStore_ListActiveLabelsSkipsInactiveAncestors(t *testing.T) {
	ctx := context.Background()
	store, area, equipo, _ := seedMemoryStore(t)

	labels, err := store.ListActiveLabels(ctx, LabelsFilter{})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, equipo.Codigo, labels[0].EquipoCodigo)

	require.NoError(t, store.DisableArea(ctx, area.ID))

	labels, err = store.ListActiveLabels(ctx, LabelsFilter{})
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestMemoryStore_UniqueNombreAndCodigo(t *testing.T) {
	ctx := context.Background()
	store, area, _, _ := seedMemoryStore(t)

	dup := domain.Area{ID: uuid.New().String(), Nombre: area.Nombre, Activo: true}
	assert.ErrorIs(t, store.CreateArea(ctx, &dup), domain.ErrConflict)

	dupEquipo := domain.Equipo{
		ID: uuid.New().String(), Tipo: domain.TipoOtro,
		Codigo: "CONV-01", AreaID: area.ID, Activo: true,
	}
	assert.ErrorIs(t, store.CreateEquipo(ctx, &dupEquipo), domain.ErrConflict)
}

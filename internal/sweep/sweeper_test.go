package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/config"
	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

type recordingNotifier struct {
	mu      sync.Mutex
	intents []AlertIntent
	fail    bool
}

func (n *recordingNotifier) Enviar(_ context.Context, intent AlertIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return assert.AnError
	}
	n.intents = append(n.intents, intent)
	return nil
}

func setupSweepTest(t *testing.T) (*config.Config, *EstadoCache, *repository.MemoryStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Sweep.PollInterval = 3600
	cfg.Sweep.DefaultUmbralDias = 30
	cfg.Sweep.Cache.KeyPrefix = "etiquetado:label:"
	cfg.Sweep.Cache.KeySuffix = ":estado"
	cfg.Sweep.Cache.TTL = 60

	cache := NewEstadoCache(cfg, redisClient, zap.NewNop())
	return cfg, cache, repository.NewMemoryStore()
}

func seedLabel(t *testing.T, store *repository.MemoryStore, vence time.Time) (area domain.Area, equipo domain.Equipo, label domain.Label) {
	t.Helper()
	ctx := context.Background()

	area = domain.Area{ID: uuid.New().String(), Nombre: "Area " + uuid.New().String()[:8], Activo: true}
	require.NoError(t, store.CreateArea(ctx, &area))

	equipo = domain.Equipo{
		ID: uuid.New().String(), Tipo: domain.TipoConveyor,
		Codigo: "CONV-" + uuid.New().String()[:8], AreaID: area.ID, Activo: true,
	}
	require.NoError(t, store.CreateEquipo(ctx, &equipo))

	now := time.Now().UTC()
	label = domain.Label{
		ID: uuid.New().String(), EquipoID: equipo.ID,
		FechaCreacion: now, FechaActualizacion: now,
		FechaVencimiento: vence, Revision: 1, CreadoPor: "tester",
	}
	first := domain.HistorialLabel{
		ID: uuid.New().String(), LabelID: label.ID,
		FechaCambio: now, RevisionNueva: 1, Usuario: "tester",
	}
	require.NoError(t, store.CreateLabel(ctx, &label, &first))
	return area, equipo, label
}

func TestEstadoCache_PutGetRoundTrip(t *testing.T) {
	_, cache, _ := setupSweepTest(t)
	ctx := context.Background()

	entry := EstadoEntry{
		LabelID:          "lbl-1",
		Estado:           domain.EstadoProximo,
		DiasRestantes:    5,
		FechaVencimiento: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Revision:         3,
		ActualizadoEn:    time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.PutEstado(ctx, entry))

	got, err := cache.GetEstado(ctx, "lbl-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoProximo, got.Estado)
	assert.Equal(t, 5, got.DiasRestantes)
	assert.Equal(t, 3, got.Revision)
}

func TestEstadoCache_MissIsNotFound(t *testing.T) {
	_, cache, _ := setupSweepTest(t)

	_, err := cache.GetEstado(context.Background(), "lbl-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweeper_RunOnce(t *testing.T) {
	cfg, cache, store := setupSweepTest(t)
	ctx := context.Background()

	area, _, expiring := seedLabel(t, store, time.Now().UTC().AddDate(0, 0, 5))
	_, _, healthy := seedLabel(t, store, time.Now().UTC().AddDate(1, 0, 0))

	sub := domain.SuscripcionAlerta{
		ID: uuid.New().String(), AreaID: &area.ID,
		Email: "turno@planta.example", UmbralDias: 30, Activo: true,
	}
	require.NoError(t, store.CreateSuscripcion(ctx, &sub))

	notifier := &recordingNotifier{}
	sweeper := NewSweeper(cfg, store, store, cache, notifier, zap.NewNop())

	require.NoError(t, sweeper.RunOnce(ctx))

	require.Len(t, notifier.intents, 1)
	assert.Equal(t, expiring.ID, notifier.intents[0].LabelID)
	assert.Equal(t, domain.EstadoProximo, notifier.intents[0].Estado)
	assert.Equal(t, "turno@planta.example", notifier.intents[0].Email)

	// Both labels are mirrored regardless of whether they fired.
	cached, err := cache.GetEstado(ctx, expiring.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoProximo, cached.Estado)

	cached, err = cache.GetEstado(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoOk, cached.Estado)
}

func TestSweeper_NotifierFailureDoesNotAbortPass(t *testing.T) {
	cfg, cache, store := setupSweepTest(t)
	ctx := context.Background()

	area, _, _ := seedLabel(t, store, time.Now().UTC().AddDate(0, 0, -1))
	sub := domain.SuscripcionAlerta{
		ID: uuid.New().String(), AreaID: &area.ID,
		Email: "turno@planta.example", UmbralDias: 30, Activo: true,
	}
	require.NoError(t, store.CreateSuscripcion(ctx, &sub))

	notifier := &recordingNotifier{fail: true}
	sweeper := NewSweeper(cfg, store, store, cache, notifier, zap.NewNop())

	assert.NoError(t, sweeper.RunOnce(ctx))
}

func TestSweeper_InactiveEquipoExcluded(t *testing.T) {
	cfg, cache, store := setupSweepTest(t)
	ctx := context.Background()

	area, equipo, _ := seedLabel(t, store, time.Now().UTC().AddDate(0, 0, -1))
	equipo.Activo = false
	require.NoError(t, store.UpdateEquipo(ctx, &equipo))

	sub := domain.SuscripcionAlerta{
		ID: uuid.New().String(), AreaID: &area.ID,
		Email: "turno@planta.example", UmbralDias: 30, Activo: true,
	}
	require.NoError(t, store.CreateSuscripcion(ctx, &sub))

	notifier := &recordingNotifier{}
	sweeper := NewSweeper(cfg, store, store, cache, notifier, zap.NewNop())

	require.NoError(t, sweeper.RunOnce(ctx))
	assert.Empty(t, notifier.intents)
}

func TestSweeper_StartStopsOnContextCancel(t *testing.T) {
	cfg, cache, store := setupSweepTest(t)
	cfg.Sweep.PollInterval = 1

	notifier := &recordingNotifier{}
	sweeper := NewSweeper(cfg, store, store, cache, notifier, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

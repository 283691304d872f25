package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/config"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

// Notifier delivers one alert intent. Implementations live in
// internal/notifier; the sweeper only decides what to send.
type Notifier interface {
	Enviar(ctx context.Context, intent AlertIntent) error
}

// Sweeper is the periodic evaluation task: it snapshots active labels and
// subscriptions, refreshes the estado cache, and hands alert intents to
// the notifier. One pass is independent of the next.
type Sweeper struct {
	config        *config.Config
	labels        repository.LabelsRepository
	suscripciones repository.SuscripcionesRepository
	cache         *EstadoCache
	notifier      Notifier
	logger        *zap.Logger

	now func() time.Time
}

// NewSweeper wires the sweep task. cache may be nil when Redis is not
// configured; the estado mirror is then skipped.
func NewSweeper(
	cfg *config.Config,
	labels repository.LabelsRepository,
	suscripciones repository.SuscripcionesRepository,
	cache *EstadoCache,
	notifier Notifier,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		config:        cfg,
		labels:        labels,
		suscripciones: suscripciones,
		cache:         cache,
		notifier:      notifier,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the sweep loop until ctx is cancelled. The first pass runs
// immediately; failures are logged and the loop keeps going.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("Sweeper started",
		zap.Int("poll_interval", s.config.Sweep.PollInterval),
		zap.Int("default_umbral_dias", s.config.Sweep.DefaultUmbralDias),
	)

	ticker := time.NewTicker(time.Duration(s.config.Sweep.PollInterval) * time.Second)
	defer ticker.Stop()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("Sweep pass failed on startup", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return nil
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("Sweep pass failed", zap.Error(err))
				// keep the loop alive
			}
		}
	}
}

// RunOnce executes a single sweep pass over a snapshot of the current
// state. A label renewed while the pass runs is picked up next time.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	now := s.now()

	labels, err := s.labels.ListActiveLabels(ctx, repository.LabelsFilter{})
	if err != nil {
		return fmt.Errorf("failed to list active labels: %w", err)
	}
	subs, err := s.suscripciones.ListActivas(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active suscripciones: %w", err)
	}

	s.logger.Debug("Sweep pass",
		zap.Int("label_count", len(labels)),
		zap.Int("suscripcion_count", len(subs)),
	)

	s.refreshCache(ctx, labels, now)

	intents := ComputeIntents(labels, subs, now)
	sent := 0
	for _, intent := range intents {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.notifier.Enviar(ctx, intent); err != nil {
			s.logger.Error("Failed to deliver alert intent",
				zap.String("suscripcion_id", intent.SuscripcionID),
				zap.String("label_id", intent.LabelID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("Sweep pass complete",
		zap.Int("labels", len(labels)),
		zap.Int("intents", len(intents)),
		zap.Int("sent", sent),
	)
	return nil
}

// refreshCache mirrors every swept label's estado into Redis, using the
// service-wide default umbral. Per-subscription umbrales only affect
// intents, not the cached estado.
func (s *Sweeper) refreshCache(ctx context.Context, labels []repository.LabelContexto, now time.Time) {
	if s.cache == nil {
		return
	}
	for i := range labels {
		lc := &labels[i]
		entry, err := classifyEntry(lc, s.config.Sweep.DefaultUmbralDias, now)
		if err != nil {
			s.logger.Error("Failed to classify label for cache",
				zap.String("label_id", lc.ID),
				zap.Error(err),
			)
			continue
		}
		if err := s.cache.PutEstado(ctx, entry); err != nil {
			s.logger.Error("Failed to update estado cache",
				zap.String("label_id", lc.ID),
				zap.Error(err),
			)
		}
	}
}

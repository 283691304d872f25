package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/config"
	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

// EstadoEntry is the cached classification of a single label, refreshed
// on every sweep pass.
type EstadoEntry struct {
	LabelID          string                   `json:"label_id"`
	Estado           domain.EstadoVencimiento `json:"estado"`
	DiasRestantes    int                      `json:"dias_restantes"`
	FechaVencimiento time.Time                `json:"fecha_vencimiento"`
	Revision         int                      `json:"revision"`
	ActualizadoEn    time.Time                `json:"actualizado_en"`
}

// classifyEntry builds the cache entry for one swept label.
func classifyEntry(lc *repository.LabelContexto, umbralDias int, now time.Time) (EstadoEntry, error) {
	estado, err := domain.Clasificar(lc.FechaVencimiento, umbralDias, now)
	if err != nil {
		return EstadoEntry{}, err
	}
	return EstadoEntry{
		LabelID:          lc.ID,
		Estado:           estado,
		DiasRestantes:    domain.DiasRestantes(lc.FechaVencimiento, now),
		FechaVencimiento: lc.FechaVencimiento,
		Revision:         lc.Revision,
		ActualizadoEn:    now,
	}, nil
}

// EstadoCache mirrors per-label estados into Redis so dashboards can read
// the latest sweep result without hitting PostgreSQL.
type EstadoCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewEstadoCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *EstadoCache {
	return &EstadoCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (c *EstadoCache) key(labelID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Sweep.Cache.KeyPrefix,
		labelID,
		c.config.Sweep.Cache.KeySuffix,
	)
}

// PutEstado writes one label's classification with the configured TTL. A
// label that stops being swept (deleted, or its equipo disabled) simply
// ages out.
func (c *EstadoCache) PutEstado(ctx context.Context, entry EstadoEntry) error {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal estado entry: %w", err)
	}

	key := c.key(entry.LabelID)
	err = c.redisClient.Set(
		ctx,
		key,
		jsonData,
		time.Duration(c.config.Sweep.Cache.TTL)*time.Second,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set estado cache: %w", err)
	}

	c.logger.Debug("Updated estado cache",
		zap.String("label_id", entry.LabelID),
		zap.String("key", key),
		zap.String("estado", string(entry.Estado)),
	)
	return nil
}

// GetEstado reads one label's cached classification. Returns ErrNotFound
// when no sweep has cached this label yet (or the entry expired).
func (c *EstadoCache) GetEstado(ctx context.Context, labelID string) (*EstadoEntry, error) {
	val, err := c.redisClient.Get(ctx, c.key(labelID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("estado not cached for label %s: %w", labelID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get estado cache: %w", err)
	}

	var entry EstadoEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal estado entry: %w", err)
	}
	return &entry, nil
}

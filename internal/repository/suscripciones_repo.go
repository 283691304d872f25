package repository

import (
	"context"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// SuscripcionesRepository is the persistence contract for SuscripcionAlerta.
type SuscripcionesRepository interface {
	GetSuscripcion(ctx context.Context, suscripcionID string) (*domain.SuscripcionAlerta, error)

	ListSuscripciones(ctx context.Context, incluirInactivas bool) ([]domain.SuscripcionAlerta, error)

	// ListActivas snapshots the active subscriptions for a sweep.
	ListActivas(ctx context.Context) ([]domain.SuscripcionAlerta, error)

	CreateSuscripcion(ctx context.Context, s *domain.SuscripcionAlerta) error

	UpdateSuscripcion(ctx context.Context, s *domain.SuscripcionAlerta) error

	// DeleteSuscripcion removes the subscription. Subscriptions carry no
	// history, so hard delete is fine.
	DeleteSuscripcion(ctx context.Context, suscripcionID string) error
}

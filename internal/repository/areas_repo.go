package repository

import (
	"context"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// AreasRepository is the persistence contract for Area.
// Areas are soft-disabled via the activo flag, never physically removed
// while equipment still references them.
type AreasRepository interface {
	GetArea(ctx context.Context, areaID string) (*domain.Area, error)

	// GetAreaByNombre looks an area up by its unique name.
	GetAreaByNombre(ctx context.Context, nombre string) (*domain.Area, error)

	// ListAreas returns areas ordered by nombre; inactive ones only when
	// incluirInactivas is set.
	ListAreas(ctx context.Context, incluirInactivas bool) ([]domain.Area, error)

	// CreateArea inserts a new area. Fails with ErrConflict when the nombre
	// is already taken.
	CreateArea(ctx context.Context, area *domain.Area) error

	// UpdateArea rewrites nombre and activo. Same uniqueness rule as create.
	UpdateArea(ctx context.Context, area *domain.Area) error

	// DisableArea clears the activo flag (soft delete).
	DisableArea(ctx context.Context, areaID string) error
}

package repository

import (
	"context"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// EquiposFilter narrows ListEquipos.
type EquiposFilter struct {
	AreaID            string
	IncluirInactivos  bool
}

// EquiposRepository is the persistence contract for Equipo.
type EquiposRepository interface {
	GetEquipo(ctx context.Context, equipoID string) (*domain.Equipo, error)

	// GetEquipoByCodigo looks an equipo up by its unique code.
	GetEquipoByCodigo(ctx context.Context, codigo string) (*domain.Equipo, error)

	ListEquipos(ctx context.Context, filter EquiposFilter) ([]domain.Equipo, error)

	// CreateEquipo inserts a new equipo. Fails with ErrConflict when the
	// codigo is taken and ErrNotFound when the referenced area is absent.
	CreateEquipo(ctx context.Context, equipo *domain.Equipo) error

	UpdateEquipo(ctx context.Context, equipo *domain.Equipo) error

	// DisableEquipo clears the activo flag (soft delete).
	DisableEquipo(ctx context.Context, equipoID string) error

	// DeleteEquipo removes the equipo and cascades to its labels and their
	// historial.
	DeleteEquipo(ctx context.Context, equipoID string) error

	// CountByArea counts equipos referencing an area, optionally only the
	// active ones. Used to refuse disabling an area that still has active
	// equipment.
	CountByArea(ctx context.Context, areaID string, soloActivos bool) (int, error)
}

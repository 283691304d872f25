package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

// EquipoService manages the equipment catalog.
type EquipoService struct {
	equipos repository.EquiposRepository
	areas   repository.AreasRepository
	logger  *zap.Logger
}

func NewEquipoService(equipos repository.EquiposRepository, areas repository.AreasRepository, logger *zap.Logger) *EquipoService {
	return &EquipoService{equipos: equipos, areas: areas, logger: logger}
}

// CreateEquipoRequest carries the fields for a new equipo.
type CreateEquipoRequest struct {
	Tipo   domain.TipoEquipo
	Codigo string
	AreaID string
}

func (s *EquipoService) CreateEquipo(ctx context.Context, req CreateEquipoRequest) (*domain.Equipo, error) {
	equipo := &domain.Equipo{
		ID:     uuid.New().String(),
		Tipo:   req.Tipo,
		Codigo: strings.TrimSpace(req.Codigo),
		AreaID: req.AreaID,
		Activo: true,
	}
	if err := equipo.Validate(); err != nil {
		return nil, err
	}

	area, err := s.areas.GetArea(ctx, req.AreaID)
	if err != nil {
		return nil, fmt.Errorf("create equipo: area %s: %w", req.AreaID, err)
	}
	if !area.Activo {
		return nil, fmt.Errorf("%w: area %s is inactive", domain.ErrValidation, area.Nombre)
	}

	if err := s.equipos.CreateEquipo(ctx, equipo); err != nil {
		return nil, err
	}
	s.logger.Info("equipo created",
		zap.String("equipo_id", equipo.ID),
		zap.String("codigo", equipo.Codigo),
		zap.String("area_id", equipo.AreaID),
	)
	return equipo, nil
}

func (s *EquipoService) GetEquipo(ctx context.Context, equipoID string) (*domain.Equipo, error) {
	return s.equipos.GetEquipo(ctx, equipoID)
}

func (s *EquipoService) ListEquipos(ctx context.Context, filter repository.EquiposFilter) ([]domain.Equipo, error) {
	return s.equipos.ListEquipos(ctx, filter)
}

// UpdateEquipoRequest rewrites an equipo, including moving it to another
// area: area-scoped subscriptions follow the new ancestor chain on the next
// sweep.
type UpdateEquipoRequest struct {
	EquipoID string
	Tipo     domain.TipoEquipo
	Codigo   string
	AreaID   string
	Activo   bool
}

func (s *EquipoService) UpdateEquipo(ctx context.Context, req UpdateEquipoRequest) (*domain.Equipo, error) {
	equipo, err := s.equipos.GetEquipo(ctx, req.EquipoID)
	if err != nil {
		return nil, err
	}

	if req.AreaID != equipo.AreaID {
		area, err := s.areas.GetArea(ctx, req.AreaID)
		if err != nil {
			return nil, fmt.Errorf("update equipo: area %s: %w", req.AreaID, err)
		}
		if !area.Activo {
			return nil, fmt.Errorf("%w: area %s is inactive", domain.ErrValidation, area.Nombre)
		}
	}

	equipo.Tipo = req.Tipo
	equipo.Codigo = strings.TrimSpace(req.Codigo)
	equipo.AreaID = req.AreaID
	equipo.Activo = req.Activo
	if err := equipo.Validate(); err != nil {
		return nil, err
	}

	if err := s.equipos.UpdateEquipo(ctx, equipo); err != nil {
		return nil, err
	}
	return equipo, nil
}

// DisableEquipo soft-disables an equipo; its labels stay stored but drop out
// of sweeps and API listings until it is re-enabled.
func (s *EquipoService) DisableEquipo(ctx context.Context, equipoID string) error {
	if err := s.equipos.DisableEquipo(ctx, equipoID); err != nil {
		return err
	}
	s.logger.Info("equipo disabled", zap.String("equipo_id", equipoID))
	return nil
}

// DeleteEquipo hard-deletes an equipo and cascades to its labels and their
// historial.
func (s *EquipoService) DeleteEquipo(ctx context.Context, equipoID string) error {
	if err := s.equipos.DeleteEquipo(ctx, equipoID); err != nil {
		return err
	}
	s.logger.Info("equipo deleted", zap.String("equipo_id", equipoID))
	return nil
}

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

// AreaService manages the area catalog. Areas are only ever soft-disabled;
// disabling requires the area's equipment to be disabled first so labels
// never silently drop out of the sweep while their machines still run.
type AreaService struct {
	areas   repository.AreasRepository
	equipos repository.EquiposRepository
	logger  *zap.Logger
}

func NewAreaService(areas repository.AreasRepository, equipos repository.EquiposRepository, logger *zap.Logger) *AreaService {
	return &AreaService{areas: areas, equipos: equipos, logger: logger}
}

func (s *AreaService) CreateArea(ctx context.Context, nombre string) (*domain.Area, error) {
	area := &domain.Area{
		ID:     uuid.New().String(),
		Nombre: strings.TrimSpace(nombre),
		Activo: true,
	}
	if err := area.Validate(); err != nil {
		return nil, err
	}
	if err := s.areas.CreateArea(ctx, area); err != nil {
		return nil, err
	}
	s.logger.Info("area created", zap.String("area_id", area.ID), zap.String("nombre", area.Nombre))
	return area, nil
}

func (s *AreaService) GetArea(ctx context.Context, areaID string) (*domain.Area, error) {
	return s.areas.GetArea(ctx, areaID)
}

func (s *AreaService) ListAreas(ctx context.Context, incluirInactivas bool) ([]domain.Area, error) {
	return s.areas.ListAreas(ctx, incluirInactivas)
}

func (s *AreaService) UpdateArea(ctx context.Context, areaID, nombre string, activo bool) (*domain.Area, error) {
	area, err := s.areas.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	area.Nombre = strings.TrimSpace(nombre)
	area.Activo = activo
	if err := area.Validate(); err != nil {
		return nil, err
	}
	if err := s.areas.UpdateArea(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

// DisableArea soft-disables an area. Refused while active equipment still
// references it.
func (s *AreaService) DisableArea(ctx context.Context, areaID string) error {
	activos, err := s.equipos.CountByArea(ctx, areaID, true)
	if err != nil {
		return err
	}
	if activos > 0 {
		return fmt.Errorf("%w: area has %d active equipos", domain.ErrConflict, activos)
	}
	if err := s.areas.DisableArea(ctx, areaID); err != nil {
		return err
	}
	s.logger.Info("area disabled", zap.String("area_id", areaID))
	return nil
}

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

// SuscripcionService manages alert subscriptions and verifies the scope
// target actually exists before a subscription is written.
type SuscripcionService struct {
	suscripciones repository.SuscripcionesRepository
	areas         repository.AreasRepository
	equipos       repository.EquiposRepository
	labels        repository.LabelsRepository
	logger        *zap.Logger
}

func NewSuscripcionService(
	suscripciones repository.SuscripcionesRepository,
	areas repository.AreasRepository,
	equipos repository.EquiposRepository,
	labels repository.LabelsRepository,
	logger *zap.Logger,
) *SuscripcionService {
	return &SuscripcionService{
		suscripciones: suscripciones,
		areas:         areas,
		equipos:       equipos,
		labels:        labels,
		logger:        logger,
	}
}

// CreateSuscripcionRequest carries a new subscription. UmbralDias nil means
// the default threshold.
type CreateSuscripcionRequest struct {
	AreaID     *string
	EquipoID   *string
	LabelID    *string
	Email      string
	UmbralDias *int
}

func (s *SuscripcionService) CreateSuscripcion(ctx context.Context, req CreateSuscripcionRequest) (*domain.SuscripcionAlerta, error) {
	umbral := domain.DefaultUmbralDias
	if req.UmbralDias != nil {
		umbral = *req.UmbralDias
	}

	sub := &domain.SuscripcionAlerta{
		ID:         uuid.New().String(),
		AreaID:     req.AreaID,
		EquipoID:   req.EquipoID,
		LabelID:    req.LabelID,
		Email:      strings.TrimSpace(req.Email),
		UmbralDias: umbral,
		Activo:     true,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkScope(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.suscripciones.CreateSuscripcion(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("suscripcion created",
		zap.String("suscripcion_id", sub.ID),
		zap.String("email", sub.Email),
		zap.Int("umbral_dias", sub.UmbralDias),
	)
	return sub, nil
}

func (s *SuscripcionService) GetSuscripcion(ctx context.Context, id string) (*domain.SuscripcionAlerta, error) {
	return s.suscripciones.GetSuscripcion(ctx, id)
}

func (s *SuscripcionService) ListSuscripciones(ctx context.Context, incluirInactivas bool) ([]domain.SuscripcionAlerta, error) {
	return s.suscripciones.ListSuscripciones(ctx, incluirInactivas)
}

// UpdateSuscripcionRequest rewrites a subscription in place.
type UpdateSuscripcionRequest struct {
	SuscripcionID string
	AreaID        *string
	EquipoID      *string
	LabelID       *string
	Email         string
	UmbralDias    int
	Activo        bool
}

func (s *SuscripcionService) UpdateSuscripcion(ctx context.Context, req UpdateSuscripcionRequest) (*domain.SuscripcionAlerta, error) {
	sub, err := s.suscripciones.GetSuscripcion(ctx, req.SuscripcionID)
	if err != nil {
		return nil, err
	}

	sub.AreaID = req.AreaID
	sub.EquipoID = req.EquipoID
	sub.LabelID = req.LabelID
	sub.Email = strings.TrimSpace(req.Email)
	sub.UmbralDias = req.UmbralDias
	sub.Activo = req.Activo
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkScope(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.suscripciones.UpdateSuscripcion(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SuscripcionService) DeleteSuscripcion(ctx context.Context, id string) error {
	if err := s.suscripciones.DeleteSuscripcion(ctx, id); err != nil {
		return err
	}
	s.logger.Info("suscripcion deleted", zap.String("suscripcion_id", id))
	return nil
}

// checkScope verifies the referenced area/equipo/label exists.
func (s *SuscripcionService) checkScope(ctx context.Context, sub *domain.SuscripcionAlerta) error {
	switch {
	case sub.LabelID != nil && *sub.LabelID != "":
		if _, err := s.labels.GetLabel(ctx, *sub.LabelID); err != nil {
			return fmt.Errorf("suscripcion label %s: %w", *sub.LabelID, err)
		}
	case sub.EquipoID != nil && *sub.EquipoID != "":
		if _, err := s.equipos.GetEquipo(ctx, *sub.EquipoID); err != nil {
			return fmt.Errorf("suscripcion equipo %s: %w", *sub.EquipoID, err)
		}
	case sub.AreaID != nil && *sub.AreaID != "":
		if _, err := s.areas.GetArea(ctx, *sub.AreaID); err != nil {
			return fmt.Errorf("suscripcion area %s: %w", *sub.AreaID, err)
		}
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

// LabelService owns the label lifecycle: creation, renewal with the
// append-only audit trail, and status reads. Renewals are guarded by
// optimistic concurrency; a stale expected revision surfaces ErrConflict and
// the caller retries with fresh state.
type LabelService struct {
	labels  repository.LabelsRepository
	equipos repository.EquiposRepository
	logger  *zap.Logger

	now func() time.Time
}

func NewLabelService(labels repository.LabelsRepository, equipos repository.EquiposRepository, logger *zap.Logger) *LabelService {
	return &LabelService{
		labels:  labels,
		equipos: equipos,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateLabelRequest carries the fields for a new label.
type CreateLabelRequest struct {
	EquipoID         string
	FechaVencimiento time.Time
	CreadoPor        string
	Observacion      *string
	FotoURL          *string
	FotoBlob         []byte
	FotoContentType  *string
}

// CreateLabel writes the label at revision 1 together with its first
// historial record (revision_anterior null) as one atomic unit.
func (s *LabelService) CreateLabel(ctx context.Context, req CreateLabelRequest) (*domain.Label, error) {
	now := s.now()
	label := &domain.Label{
		ID:                 uuid.New().String(),
		EquipoID:           req.EquipoID,
		FechaCreacion:      now,
		FechaActualizacion: now,
		FechaVencimiento:   req.FechaVencimiento,
		Revision:           1,
		CreadoPor:          strings.TrimSpace(req.CreadoPor),
		Observacion:        req.Observacion,
		FotoURL:            req.FotoURL,
		FotoBlob:           req.FotoBlob,
		FotoContentType:    req.FotoContentType,
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}

	equipo, err := s.equipos.GetEquipo(ctx, req.EquipoID)
	if err != nil {
		return nil, fmt.Errorf("create label: equipo %s: %w", req.EquipoID, err)
	}
	if !equipo.Activo {
		return nil, fmt.Errorf("%w: equipo %s is inactive", domain.ErrValidation, equipo.Codigo)
	}

	first := &domain.HistorialLabel{
		ID:            uuid.New().String(),
		LabelID:       label.ID,
		FechaCambio:   now,
		RevisionNueva: 1,
		Usuario:       label.CreadoPor,
	}
	if err := first.Validate(); err != nil {
		return nil, err
	}

	if err := s.labels.CreateLabel(ctx, label, first); err != nil {
		return nil, err
	}

	s.logger.Info("label created",
		zap.String("label_id", label.ID),
		zap.String("equipo_id", label.EquipoID),
		zap.Time("fecha_vencimiento", label.FechaVencimiento),
	)
	return label, nil
}

// RenewLabelRequest carries a renewal. ExpectedRevision is the revision the
// caller read; the renewal only lands while it is still current.
type RenewLabelRequest struct {
	LabelID          string
	ExpectedRevision int
	FechaVencimiento time.Time
	Usuario          string
	Comentario       *string
	Observacion      *string
	FotoURL          *string
	FotoBlob         []byte
	FotoContentType  *string
}

// RenewLabel bumps the label to the next revision, stamps the update time,
// replaces the expiry date, and appends exactly one historial record —
// atomically with the label update. Identical renewals are not de-duplicated;
// the audit trail is append-only by contract.
func (s *LabelService) RenewLabel(ctx context.Context, req RenewLabelRequest) (*domain.Label, *domain.HistorialLabel, error) {
	if strings.TrimSpace(req.Usuario) == "" {
		return nil, nil, fmt.Errorf("%w: usuario is required", domain.ErrValidation)
	}
	if req.FechaVencimiento.IsZero() {
		return nil, nil, fmt.Errorf("%w: fecha_vencimiento is required", domain.ErrValidation)
	}
	if req.ExpectedRevision < 1 {
		return nil, nil, fmt.Errorf("%w: expected_revision must be >= 1", domain.ErrValidation)
	}

	label, err := s.labels.GetLabel(ctx, req.LabelID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	updated := *label
	updated.Revision = req.ExpectedRevision + 1
	updated.FechaActualizacion = now
	updated.FechaVencimiento = req.FechaVencimiento
	if req.Observacion != nil {
		updated.Observacion = req.Observacion
	}
	if req.FotoURL != nil {
		updated.FotoURL = req.FotoURL
	}
	if req.FotoBlob != nil {
		updated.FotoBlob = req.FotoBlob
	}
	if req.FotoContentType != nil {
		updated.FotoContentType = req.FotoContentType
	}
	if err := updated.Validate(); err != nil {
		return nil, nil, err
	}

	prev := req.ExpectedRevision
	hist := &domain.HistorialLabel{
		ID:               uuid.New().String(),
		LabelID:          label.ID,
		FechaCambio:      now,
		RevisionAnterior: &prev,
		RevisionNueva:    updated.Revision,
		Usuario:          strings.TrimSpace(req.Usuario),
		Comentario:       req.Comentario,
	}
	if err := hist.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.labels.SaveLabel(ctx, &updated, req.ExpectedRevision, hist); err != nil {
		return nil, nil, err
	}

	s.logger.Info("label renewed",
		zap.String("label_id", label.ID),
		zap.Int("revision", updated.Revision),
		zap.String("usuario", hist.Usuario),
		zap.Time("fecha_vencimiento", updated.FechaVencimiento),
	)
	return &updated, hist, nil
}

// LabelEstado is a label with its derived status for API reads.
type LabelEstado struct {
	repository.LabelContexto
	Estado         domain.EstadoVencimiento `json:"estado"`
	DiasRestantes  int                      `json:"dias_restantes"`
}

// GetLabel returns one label with its ancestors and derived status.
func (s *LabelService) GetLabel(ctx context.Context, labelID string, umbralDias int) (*LabelEstado, error) {
	lc, err := s.labels.GetLabelContexto(ctx, labelID)
	if err != nil {
		return nil, err
	}
	estado, err := domain.Clasificar(lc.FechaVencimiento, umbralDias, s.now())
	if err != nil {
		return nil, err
	}
	return &LabelEstado{
		LabelContexto: *lc,
		Estado:        estado,
		DiasRestantes: domain.DiasRestantes(lc.FechaVencimiento, s.now()),
	}, nil
}

// ListLabels returns the active labels, classified, optionally filtered to a
// subtree and/or to a single status.
func (s *LabelService) ListLabels(ctx context.Context, filter repository.LabelsFilter, umbralDias int, soloEstado domain.EstadoVencimiento) ([]LabelEstado, error) {
	if umbralDias < 0 {
		return nil, fmt.Errorf("%w: umbral_dias must be >= 0", domain.ErrValidation)
	}

	labels, err := s.labels.ListActiveLabels(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]LabelEstado, 0, len(labels))
	for _, lc := range labels {
		estado, err := domain.Clasificar(lc.FechaVencimiento, umbralDias, now)
		if err != nil {
			return nil, err
		}
		if soloEstado != "" && estado != soloEstado {
			continue
		}
		out = append(out, LabelEstado{
			LabelContexto: lc,
			Estado:        estado,
			DiasRestantes: domain.DiasRestantes(lc.FechaVencimiento, now),
		})
	}
	return out, nil
}

// ListHistorial returns a label's audit chain. Read-only; never mutates.
func (s *LabelService) ListHistorial(ctx context.Context, labelID string) ([]domain.HistorialLabel, error) {
	if _, err := s.labels.GetLabel(ctx, labelID); err != nil {
		return nil, err
	}
	return s.labels.ListHistorial(ctx, labelID)
}

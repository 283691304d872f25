package repository

import (
	"context"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// LabelsFilter narrows ListActiveLabels to a branch of the hierarchy.
type LabelsFilter struct {
	AreaID   string
	EquipoID string
}

// LabelContexto is a label joined with its ancestor chain, as the sweep and
// the read API consume it. Relations stay explicit identifiers; there are no
// embedded back-pointers.
type LabelContexto struct {
	domain.Label
	EquipoCodigo string `json:"equipo_codigo"`
	AreaID       string `json:"area_id"`
	AreaNombre   string `json:"area_nombre"`
}

// LabelsRepository is the persistence contract for Label and its historial.
//
// The label row and its history chain move together: CreateLabel writes the
// label plus the first historial record, and SaveLabel writes the updated
// label plus the renewal record, each as a single atomic unit. A partial
// write (label without history, or the reverse) must be impossible.
type LabelsRepository interface {
	GetLabel(ctx context.Context, labelID string) (*domain.Label, error)

	// GetLabelContexto returns the label with its equipo/area ancestors.
	GetLabelContexto(ctx context.Context, labelID string) (*LabelContexto, error)

	// ListActiveLabels snapshots every label whose equipo and area are both
	// active, with ancestor context, optionally filtered to a subtree.
	ListActiveLabels(ctx context.Context, filter LabelsFilter) ([]LabelContexto, error)

	// CreateLabel inserts the label (revision 1) and its first historial
	// record atomically.
	CreateLabel(ctx context.Context, label *domain.Label, first *domain.HistorialLabel) error

	// SaveLabel rewrites the label and appends one historial record
	// atomically, guarded by optimistic concurrency: the update only applies
	// while the stored revision still equals expectedRevision, otherwise it
	// fails with ErrConflict and leaves the store untouched.
	SaveLabel(ctx context.Context, label *domain.Label, expectedRevision int, hist *domain.HistorialLabel) error

	// ListHistorial returns the audit chain ordered by revision_nueva
	// ascending. Read-only.
	ListHistorial(ctx context.Context, labelID string) ([]domain.HistorialLabel, error)
}

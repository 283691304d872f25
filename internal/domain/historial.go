package domain

import (
	"fmt"
	"strings"
	"time"
)

// HistorialLabel maps to the historial_labels table: one immutable audit
// record per label revision. RevisionAnterior is nil only for the record
// written when the label is created (RevisionNueva = 1); every later record
// must continue the chain with RevisionNueva = RevisionAnterior + 1.
type HistorialLabel struct {
	ID               string    `db:"historial_id" json:"historial_id"`
	LabelID          string    `db:"label_id" json:"label_id"`
	FechaCambio      time.Time `db:"fecha_cambio" json:"fecha_cambio"`
	RevisionAnterior *int      `db:"revision_anterior" json:"revision_anterior"`
	RevisionNueva    int       `db:"revision_nueva" json:"revision_nueva"`
	Usuario          string    `db:"usuario" json:"usuario"`
	Comentario       *string   `db:"comentario" json:"comentario,omitempty"`
}

// Validate checks the chain rule and required fields before any write.
func (h *HistorialLabel) Validate() error {
	if h.LabelID == "" {
		return fmt.Errorf("%w: label_id is required", ErrValidation)
	}
	if strings.TrimSpace(h.Usuario) == "" {
		return fmt.Errorf("%w: usuario is required", ErrValidation)
	}
	if h.RevisionAnterior == nil {
		if h.RevisionNueva != 1 {
			return fmt.Errorf("%w: first historial record must have revision_nueva = 1, got %d", ErrValidation, h.RevisionNueva)
		}
		return nil
	}
	if h.RevisionNueva != *h.RevisionAnterior+1 {
		return fmt.Errorf("%w: revision_nueva %d does not follow revision_anterior %d", ErrValidation, h.RevisionNueva, *h.RevisionAnterior)
	}
	return nil
}

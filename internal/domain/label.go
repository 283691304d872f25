package domain

import (
	"fmt"
	"strings"
	"time"
)

// Column limits for the labels table.
const (
	MaxLabelCreadoPor       = 120
	MaxLabelObservacion     = 1000
	MaxLabelFotoURL         = 500
	MaxLabelFotoContentType = 64
)

// Label maps to the labels table: a compliance tag with an expiry date
// attached to an Equipo. Revision is a denormalized cache of the latest
// HistorialLabel entry; the history chain is the source of truth.
type Label struct {
	ID                 string    `db:"label_id" json:"label_id"`
	EquipoID           string    `db:"equipo_id" json:"equipo_id"`
	FechaCreacion      time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time `db:"fecha_actualizacion" json:"fecha_actualizacion"`
	FechaVencimiento   time.Time `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	Revision           int       `db:"revision" json:"revision"` // starts at 1, gap-free
	CreadoPor          string    `db:"creado_por" json:"creado_por"`
	Observacion        *string   `db:"observacion" json:"observacion,omitempty"`
	FotoURL            *string   `db:"foto_url" json:"foto_url,omitempty"`
	FotoBlob           []byte    `db:"foto_blob" json:"foto_blob,omitempty"`
	FotoContentType    *string   `db:"foto_content_type" json:"foto_content_type,omitempty"`
}

// Validate checks the field constraints before any write.
func (l *Label) Validate() error {
	if l.EquipoID == "" {
		return fmt.Errorf("%w: equipo_id is required", ErrValidation)
	}
	if strings.TrimSpace(l.CreadoPor) == "" {
		return fmt.Errorf("%w: creado_por is required", ErrValidation)
	}
	if len(l.CreadoPor) > MaxLabelCreadoPor {
		return fmt.Errorf("%w: creado_por exceeds %d characters", ErrValidation, MaxLabelCreadoPor)
	}
	if l.FechaVencimiento.IsZero() {
		return fmt.Errorf("%w: fecha_vencimiento is required", ErrValidation)
	}
	if l.Observacion != nil && len(*l.Observacion) > MaxLabelObservacion {
		return fmt.Errorf("%w: observacion exceeds %d characters", ErrValidation, MaxLabelObservacion)
	}
	if l.FotoURL != nil && len(*l.FotoURL) > MaxLabelFotoURL {
		return fmt.Errorf("%w: foto_url exceeds %d characters", ErrValidation, MaxLabelFotoURL)
	}
	if l.FotoContentType != nil && len(*l.FotoContentType) > MaxLabelFotoContentType {
		return fmt.Errorf("%w: foto_content_type exceeds %d characters", ErrValidation, MaxLabelFotoContentType)
	}
	return nil
}

package domain

import (
	"fmt"
	"strings"
)

// MaxEquipoCodigo is the column limit for equipos.codigo.
const MaxEquipoCodigo = 100

// TipoEquipo enumerates the kinds of equipment that carry labels.
// Numeric values match the legacy catalog, including the 99 hole.
type TipoEquipo int

const (
	TipoDesconocido  TipoEquipo = 0
	TipoConveyor     TipoEquipo = 1
	TipoEmpacadora   TipoEquipo = 2
	TipoEtiquetadora TipoEquipo = 3
	TipoOtro         TipoEquipo = 99
)

// Valid reports whether t is one of the catalog values.
func (t TipoEquipo) Valid() bool {
	switch t {
	case TipoDesconocido, TipoConveyor, TipoEmpacadora, TipoEtiquetadora, TipoOtro:
		return true
	}
	return false
}

func (t TipoEquipo) String() string {
	switch t {
	case TipoDesconocido:
		return "desconocido"
	case TipoConveyor:
		return "conveyor"
	case TipoEmpacadora:
		return "empacadora"
	case TipoEtiquetadora:
		return "etiquetadora"
	case TipoOtro:
		return "otro"
	}
	return fmt.Sprintf("tipo_equipo(%d)", int(t))
}

// Equipo maps to the equipos table: a physical machine inside exactly one Area.
type Equipo struct {
	ID     string     `db:"equipo_id" json:"equipo_id"`
	Tipo   TipoEquipo `db:"tipo" json:"tipo"`
	Codigo string     `db:"codigo" json:"codigo"` // unique across the store
	AreaID string     `db:"area_id" json:"area_id"`
	Activo bool       `db:"activo" json:"activo"`
}

// Validate checks the field constraints before any write.
func (e *Equipo) Validate() error {
	codigo := strings.TrimSpace(e.Codigo)
	if codigo == "" {
		return fmt.Errorf("%w: codigo is required", ErrValidation)
	}
	if len(codigo) > MaxEquipoCodigo {
		return fmt.Errorf("%w: codigo exceeds %d characters", ErrValidation, MaxEquipoCodigo)
	}
	if e.AreaID == "" {
		return fmt.Errorf("%w: area_id is required", ErrValidation)
	}
	if !e.Tipo.Valid() {
		return fmt.Errorf("%w: unknown tipo %d", ErrValidation, int(e.Tipo))
	}
	return nil
}

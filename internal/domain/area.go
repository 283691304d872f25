package domain

import (
	"fmt"
	"strings"
)

// MaxAreaNombre is the column limit for areas.nombre.
const MaxAreaNombre = 120

// Area maps to the areas table: an organizational zone that owns equipment.
// Relations are explicit foreign keys (Equipo.AreaID); no back-pointers.
type Area struct {
	ID     string `db:"area_id" json:"area_id"`
	Nombre string `db:"nombre" json:"nombre"` // unique across the store
	Activo bool   `db:"activo" json:"activo"`
}

// Validate checks the field constraints before any write.
func (a *Area) Validate() error {
	nombre := strings.TrimSpace(a.Nombre)
	if nombre == "" {
		return fmt.Errorf("%w: nombre is required", ErrValidation)
	}
	if len(nombre) > MaxAreaNombre {
		return fmt.Errorf("%w: nombre exceeds %d characters", ErrValidation, MaxAreaNombre)
	}
	return nil
}

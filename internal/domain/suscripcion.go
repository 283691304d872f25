package domain

import (
	"fmt"
	"strings"
)

// DefaultUmbralDias is the threshold applied when a subscription is created
// without one.
const DefaultUmbralDias = 30

// SuscripcionAlerta maps to the suscripciones_alerta table: a request to be
// notified when labels within a scope approach or pass expiry. The scope is
// at most one of AreaID, EquipoID or LabelID, broadest to narrowest; a
// subscription with all three nil is invalid and never matches.
type SuscripcionAlerta struct {
	ID         string  `db:"suscripcion_id" json:"suscripcion_id"`
	AreaID     *string `db:"area_id" json:"area_id,omitempty"`
	EquipoID   *string `db:"equipo_id" json:"equipo_id,omitempty"`
	LabelID    *string `db:"label_id" json:"label_id,omitempty"`
	Email      string  `db:"email" json:"email"`
	UmbralDias int     `db:"umbral_dias" json:"umbral_dias"`
	Activo     bool    `db:"activo" json:"activo"`
}

// Validate checks scope exclusivity, email and threshold before any write.
func (s *SuscripcionAlerta) Validate() error {
	scopes := 0
	if s.AreaID != nil && *s.AreaID != "" {
		scopes++
	}
	if s.EquipoID != nil && *s.EquipoID != "" {
		scopes++
	}
	if s.LabelID != nil && *s.LabelID != "" {
		scopes++
	}
	if scopes == 0 {
		return fmt.Errorf("%w: suscripcion must be scoped to an area, equipo or label", ErrValidation)
	}
	if scopes > 1 {
		return fmt.Errorf("%w: suscripcion scope must be exactly one of area, equipo or label", ErrValidation)
	}
	email := strings.TrimSpace(s.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	if s.UmbralDias < 0 {
		return fmt.Errorf("%w: umbral_dias must be >= 0", ErrValidation)
	}
	return nil
}

// Matches reports whether the subscription's scope covers a label identified
// by its ancestor chain (label -> equipo -> area).
func (s *SuscripcionAlerta) Matches(labelID, equipoID, areaID string) bool {
	switch {
	case s.LabelID != nil && *s.LabelID != "":
		return *s.LabelID == labelID
	case s.EquipoID != nil && *s.EquipoID != "":
		return *s.EquipoID == equipoID
	case s.AreaID != nil && *s.AreaID != "":
		return *s.AreaID == areaID
	}
	// All-nil scope is invalid configuration and never matches.
	return false
}

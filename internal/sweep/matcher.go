package sweep

import (
	"time"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/repository"
)

// AlertIntent is one notification the sweep decided to send. It carries
// enough context for the notifier to compose a message without further
// lookups.
type AlertIntent struct {
	SuscripcionID    string                   `json:"suscripcion_id"`
	Email            string                   `json:"email"`
	LabelID          string                   `json:"label_id"`
	EquipoCodigo     string                   `json:"equipo_codigo"`
	AreaNombre       string                   `json:"area_nombre"`
	Estado           domain.EstadoVencimiento `json:"estado"`
	DiasRestantes    int                      `json:"dias_restantes"`
	FechaVencimiento time.Time                `json:"fecha_vencimiento"`
}

// ComputeIntents matches every active label against every active
// subscription and returns the notification intents for this sweep pass.
//
// Each subscription carries its own umbral, so a label's estado is
// recomputed per subscription rather than taken from a shared
// classification. At most one intent is emitted per (subscription, label)
// pair; no suppression state is kept between passes.
func ComputeIntents(labels []repository.LabelContexto, subs []domain.SuscripcionAlerta, now time.Time) []AlertIntent {
	intents := make([]AlertIntent, 0)
	seen := make(map[string]struct{})

	for _, sub := range subs {
		if !sub.Activo {
			continue
		}
		for i := range labels {
			lc := &labels[i]
			if !sub.Matches(lc.ID, lc.EquipoID, lc.AreaID) {
				continue
			}

			estado, err := domain.Clasificar(lc.FechaVencimiento, sub.UmbralDias, now)
			if err != nil {
				// Negative umbral should have been rejected on write; a
				// bad stored row must not sink the whole pass.
				continue
			}
			if estado == domain.EstadoOk {
				continue
			}

			key := sub.ID + "|" + lc.ID
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			intents = append(intents, AlertIntent{
				SuscripcionID:    sub.ID,
				Email:            sub.Email,
				LabelID:          lc.ID,
				EquipoCodigo:     lc.EquipoCodigo,
				AreaNombre:       lc.AreaNombre,
				Estado:           estado,
				DiasRestantes:    domain.DiasRestantes(lc.FechaVencimiento, now),
				FechaVencimiento: lc.FechaVencimiento,
			})
		}
	}

	return intents
}

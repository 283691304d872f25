// Package notifier delivers the alert intents computed by the sweep.
// Two implementations exist: a log-only notifier for deployments without
// a mail gateway, and an HTTP client for the external gateway.
package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/sweep"
)

// LogNotifier writes every intent to the service log instead of sending
// mail. Used when NOTIFIER_BASE_URL is not configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ sweep.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Enviar(_ context.Context, intent sweep.AlertIntent) error {
	n.logger.Info("Alert intent (log-only notifier)",
		zap.String("suscripcion_id", intent.SuscripcionID),
		zap.String("email", intent.Email),
		zap.String("label_id", intent.LabelID),
		zap.String("equipo_codigo", intent.EquipoCodigo),
		zap.String("area_nombre", intent.AreaNombre),
		zap.String("estado", string(intent.Estado)),
		zap.Int("dias_restantes", intent.DiasRestantes),
	)
	return nil
}

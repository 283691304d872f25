package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/sweep"
)

// mailRequest is the gateway's send payload.
type mailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// mailResponse is the gateway's send result envelope.
type mailResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// MailGateway sends alert mails through the external mail gateway's HTTP
// API.
type MailGateway struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

var _ sweep.Notifier = (*MailGateway)(nil)

// NewMailGateway builds the gateway client. timeout is per request;
// transient failures are retried with backoff before Enviar reports an
// error.
func NewMailGateway(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *MailGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &MailGateway{
		httpClient: client,
		logger:     logger,
	}
}

// Enviar sends one alert mail. Gateway-side rejections come back as
// ErrRetryable so the next sweep pass tries again.
func (g *MailGateway) Enviar(ctx context.Context, intent sweep.AlertIntent) error {
	req := mailRequest{
		To:      intent.Email,
		Subject: subjectFor(intent),
		Body:    bodyFor(intent),
	}

	var response mailResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&response).
		Post("/v1/mail/send")
	if err != nil {
		return fmt.Errorf("%w: failed to call mail gateway: %v", domain.ErrRetryable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: mail gateway returned HTTP %d", domain.ErrRetryable, resp.StatusCode())
	}
	if response.Status != 0 {
		return fmt.Errorf("%w: mail gateway error: %s (status %d)", domain.ErrRetryable, response.Msg, response.Status)
	}

	g.logger.Info("Alert mail sent",
		zap.String("email", intent.Email),
		zap.String("label_id", intent.LabelID),
		zap.String("estado", string(intent.Estado)),
	)
	return nil
}

func subjectFor(intent sweep.AlertIntent) string {
	if intent.Estado == domain.EstadoVencido {
		return fmt.Sprintf("[VENCIDA] Etiqueta de %s (%s)", intent.EquipoCodigo, intent.AreaNombre)
	}
	return fmt.Sprintf("[POR VENCER] Etiqueta de %s (%s)", intent.EquipoCodigo, intent.AreaNombre)
}

func bodyFor(intent sweep.AlertIntent) string {
	fecha := intent.FechaVencimiento.Format("2006-01-02")
	if intent.Estado == domain.EstadoVencido {
		return fmt.Sprintf(
			"La etiqueta %s del equipo %s (area %s) vencio el %s (hace %d dias). Renueve la etiqueta.",
			intent.LabelID, intent.EquipoCodigo, intent.AreaNombre, fecha, -intent.DiasRestantes,
		)
	}
	return fmt.Sprintf(
		"La etiqueta %s del equipo %s (area %s) vence el %s (en %d dias).",
		intent.LabelID, intent.EquipoCodigo, intent.AreaNombre, fecha, intent.DiasRestantes,
	)
}

package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/domain"
	"github.com/Franchi22/SafetyLabels/internal/sweep"
)

func sampleIntent() sweep.AlertIntent {
	return sweep.AlertIntent{
		SuscripcionID:    "sub-1",
		Email:            "turno@planta.example",
		LabelID:          "lbl-1",
		EquipoCodigo:     "ETIQ-01",
		AreaNombre:       "Empaque",
		Estado:           domain.EstadoVencido,
		DiasRestantes:    -2,
		FechaVencimiento: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
	}
}

func TestMailGateway_Enviar(t *testing.T) {
	var got mailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/mail/send", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mailResponse{Status: 0})
	}))
	defer srv.Close()

	gw := NewMailGateway(srv.URL, "test-key", 5*time.Second, zap.NewNop())
	require.NoError(t, gw.Enviar(context.Background(), sampleIntent()))

	assert.Equal(t, "turno@planta.example", got.To)
	assert.Contains(t, got.Subject, "VENCIDA")
	assert.Contains(t, got.Subject, "ETIQ-01")
	assert.Contains(t, got.Body, "2025-06-13")
	assert.Contains(t, got.Body, "hace 2 dias")
}

func TestMailGateway_UpcomingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req mailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Subject, "POR VENCER")
		assert.Contains(t, req.Body, "en 5 dias")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mailResponse{Status: 0})
	}))
	defer srv.Close()

	intent := sampleIntent()
	intent.Estado = domain.EstadoProximo
	intent.DiasRestantes = 5
	intent.FechaVencimiento = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	gw := NewMailGateway(srv.URL, "", 5*time.Second, zap.NewNop())
	require.NoError(t, gw.Enviar(context.Background(), intent))
}

func TestMailGateway_GatewayErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mailResponse{Status: 42, Msg: "quota exceeded"})
	}))
	defer srv.Close()

	gw := NewMailGateway(srv.URL, "", 5*time.Second, zap.NewNop())
	err := gw.Enviar(context.Background(), sampleIntent())
	assert.ErrorIs(t, err, domain.ErrRetryable)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLogNotifier_AlwaysSucceeds(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	assert.NoError(t, n.Enviar(context.Background(), sampleIntent()))
}

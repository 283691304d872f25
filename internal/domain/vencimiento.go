package domain

import (
	"fmt"
	"time"
)

// EstadoVencimiento is the derived tri-state status of a label relative to
// its expiry date. It is never stored; callers recompute it from
// FechaVencimiento and a threshold.
type EstadoVencimiento string

const (
	EstadoOk      EstadoVencimiento = "ok"
	EstadoProximo EstadoVencimiento = "proximo"
	EstadoVencido EstadoVencimiento = "vencido"
)

// DiasRestantes returns the whole days between hoy and vence, comparing at
// day granularity in UTC so time-of-day never shifts the result. A label
// expiring today counts as day 0.
func DiasRestantes(vence, hoy time.Time) int {
	v := truncateUTC(vence)
	h := truncateUTC(hoy)
	return int(v.Sub(h).Hours() / 24)
}

// Clasificar maps an expiry date and a threshold-in-days to a status:
// negative days remaining is Vencido, within the threshold (inclusive,
// including day 0) is Proximo, anything beyond is Ok. A negative threshold
// is invalid configuration, not a status.
func Clasificar(vence time.Time, umbralDias int, hoy time.Time) (EstadoVencimiento, error) {
	if umbralDias < 0 {
		return "", fmt.Errorf("%w: umbral_dias must be >= 0, got %d", ErrValidation, umbralDias)
	}
	d := DiasRestantes(vence, hoy)
	switch {
	case d < 0:
		return EstadoVencido, nil
	case d <= umbralDias:
		return EstadoProximo, nil
	default:
		return EstadoOk, nil
	}
}

func truncateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

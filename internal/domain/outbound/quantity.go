// Package outbound contiene la lógica pura del motor de salidas: parseo de
// cantidades del formulario, número de lote y formatos de fecha aceptados.
package outbound

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/warehouse-ops/internal/domain"
)

// ParseQuantity convierte una cantidad del formulario en un entero no
// negativo. Una entrada fraccionaria ("1.5") se rechaza, no se redondea;
// vacío cuenta como cero (la línea puede traer solo estibas o solo bultos).
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("cantidad %q no numérica: %w", raw, domain.ErrInvalidInput)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("cantidad %q negativa: %w", raw, domain.ErrInvalidInput)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("cantidad %q fraccionaria: %w", raw, domain.ErrInvalidInput)
	}
	return int(d.IntPart()), nil
}

// Clip aplica max(0, current - requested). La política leniente usa este
// recorte en lugar de rechazar un retiro mayor al disponible; el excedente
// recortado se reporta como advertencia, nunca en silencio.
func Clip(current, requested int) (result, clipped int) {
	if requested >= current {
		return 0, requested - current
	}
	return current - requested, 0
}

// departureFormats lista ordenada de formatos aceptados para la hora de
// salida; gana el primero que parsee.
var departureFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339,
}

// ParseDepartureTime intenta parsear la hora de salida del formulario.
// Si ningún formato aplica (o el texto está vacío) devuelve fallback.
func ParseDepartureTime(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range departureFormats {
		if t, err := time.ParseInLocation(layout, raw, fallback.Location()); err == nil {
			return t
		}
	}
	return fallback
}

// BatchNumber genera el número de lote `<prefijo><yyyyMMddHHmm>`.
// Es una etiqueta de presentación: dos envíos dentro del mismo minuto
// comparten número, así que nunca debe usarse como restricción de unicidad.
func BatchNumber(prefix string, at time.Time) string {
	return prefix + at.Format("200601021504")
}

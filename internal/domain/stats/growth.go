// Package stats contiene la aritmética pura de los indicadores KPI.
package stats

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// GrowthRate calcula la tasa de crecimiento porcentual entre dos valores:
// (current - last) / last * 100, redondeada a 2 decimales.
//
// Caso last == 0: se define como 100 si current > 0 y 0 en caso contrario.
// No es un porcentaje general — evita la división por cero con una
// convención estable para los widgets del dashboard.
func GrowthRate(current, last decimal.Decimal) decimal.Decimal {
	if last.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(last).Div(last).Mul(hundred).Round(2)
}

// GrowthRateInt variante para contadores enteros (registros, estibas, bultos).
func GrowthRateInt(current, last int64) decimal.Decimal {
	return GrowthRate(decimal.NewFromInt(current), decimal.NewFromInt(last))
}

package stats_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/warehouse-ops/internal/domain/stats"
)

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name     string
		current  string
		last     string
		expected string
	}{
		{"crecimiento simple", "150", "100", "50"},
		{"caída", "50", "100", "-50"},
		{"sin cambio", "100", "100", "0"},
		{"base cero con actividad", "50", "0", "100"},
		{"base cero sin actividad", "0", "0", "0"},
		{"redondeo a dos decimales", "100", "3", "3233.33"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			current := decimal.RequireFromString(tc.current)
			last := decimal.RequireFromString(tc.last)
			got := stats.GrowthRate(current, last)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)),
				"GrowthRate(%s, %s) = %s, esperado %s", tc.current, tc.last, got, tc.expected)
		})
	}
}

func TestGrowthRateInt(t *testing.T) {
	assert.True(t, stats.GrowthRateInt(200, 100).Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.GrowthRateInt(7, 0).Equal(decimal.NewFromInt(100)),
		"base cero con actividad se define como 100")
	assert.True(t, stats.GrowthRateInt(0, 0).Equal(decimal.Zero))
}

// Package stats contiene el motor de caché de estadísticas (lectura a
// través de dos niveles con TTL por categoría), el coordinador de
// invalidación por patrones y los casos de uso de estadísticas/dashboard.
package stats

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss la llave no existe en el nivel consultado.
var ErrCacheMiss = errors.New("cache miss")

// Entry valor cacheado con su vencimiento lógico. Los niveles conservan la
// entrada más allá de ExpiresAt (ventana de gracia) para poder servirla como
// respuesta degradada si el recálculo falla.
type Entry struct {
	Value     []byte    `json:"value"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica si la entrada ya venció lógicamente.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CacheStore puerto de un nivel de caché: el rápido en proceso y el
// compartido externo lo implementan por igual. keepFor es la retención
// física (TTL lógico + gracia); el vencimiento lógico viaja en la entrada.
type CacheStore interface {
	// Get devuelve la entrada (vencida o no) o ErrCacheMiss.
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, keepFor time.Duration) error
	// DeletePattern borra todas las llaves que casan con un patrón glob
	// ("stats:daily:*"). Devuelve cuántas eliminó.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// Category clase de estadística. Cada una tiene un TTL fijo de
// configuración; el caller nunca elige el TTL. Las categorías "historical"
// viven mucho más que las "today": solo los datos del día en curso cambian
// con nueva actividad del libro.
type Category string

const (
	CategoryDashboard        Category = "dashboard"
	CategoryDailyToday       Category = "daily-today"
	CategoryDailyHistorical  Category = "daily-historical"
	CategoryPeriodToday      Category = "period-today"
	CategoryPeriodHistorical Category = "period-historical"
	CategoryWarehouseSummary Category = "warehouse-summary"
	CategoryInventory        Category = "inventory-overview"
	CategoryTransit          Category = "transit-overview"
	CategoryCustomerRanking  Category = "customer-ranking"
	CategoryRealtime         Category = "realtime"
)

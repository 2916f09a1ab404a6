package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
	"github.com/tu-usuario/warehouse-ops/internal/infrastructure/memcache"
	"github.com/tu-usuario/warehouse-ops/pkg/config"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: ambos niveles se simulan con el store en proceso; el nivel que
// debe fallar se sustituye por brokenStore.
// ──────────────────────────────────────────────────────────────────────────────

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Dashboard:        5 * time.Minute,
		DailyToday:       2 * time.Minute,
		DailyHistorical:  6 * time.Hour,
		PeriodToday:      5 * time.Minute,
		PeriodHistorical: 6 * time.Hour,
		WarehouseSummary: 10 * time.Minute,
		Inventory:        10 * time.Minute,
		Transit:          time.Minute,
		CustomerRanking:  15 * time.Minute,
		Realtime:         30 * time.Second,
		StaleGrace:       24 * time.Hour,
	}
}

func newTestEngine(t *testing.T) (*stats.Engine, *memcache.Store, *memcache.Store) {
	t.Helper()
	fast := memcache.New(0)
	shared := memcache.New(0)
	t.Cleanup(fast.Close)
	t.Cleanup(shared.Close)
	return stats.NewEngine(fast, shared, testCacheConfig(), logger.Nop()), fast, shared
}

// brokenStore nivel de caché que falla en toda operación.
type brokenStore struct{}

var errBroken = errors.New("nivel caído")

func (brokenStore) Get(context.Context, string) (*stats.Entry, error) { return nil, errBroken }
func (brokenStore) Set(context.Context, string, *stats.Entry, time.Duration) error {
	return errBroken
}
func (brokenStore) DeletePattern(context.Context, string) (int, error) { return 0, errBroken }

type payload struct {
	Total int `json:"total"`
}

// fallbackCounter cuenta cuántas veces el motor tuvo que recalcular.
type fallbackCounter struct {
	calls int
	value payload
	err   error
}

func (f *fallbackCounter) fn(context.Context) (any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.value, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura a través
// ──────────────────────────────────────────────────────────────────────────────

func TestFetch_MissCalculaYCachea(t *testing.T) {
	engine, fast, shared := newTestEngine(t)
	fb := &fallbackCounter{value: payload{Total: 42}}
	ctx := context.Background()
	key := stats.Key("daily", "2026-09-01", "all")

	var out payload
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryDailyToday, &out, fb.fn))
	assert.Equal(t, 42, out.Total)
	assert.Equal(t, 1, fb.calls)

	// El valor quedó escrito en ambos niveles.
	assert.Equal(t, 1, fast.Len())
	assert.Equal(t, 1, shared.Len())

	// Segunda lectura: hit del nivel rápido, sin recálculo.
	out = payload{}
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryDailyToday, &out, fb.fn))
	assert.Equal(t, 42, out.Total)
	assert.Equal(t, 1, fb.calls, "un hit no debe invocar el fallback")
}

func TestFetch_HitCompartidoPromueveAlRapido(t *testing.T) {
	engine, fast, shared := newTestEngine(t)
	ctx := context.Background()
	key := stats.Key("inventory", "WH-1")

	// Otro proceso ya calculó y escribió en el nivel compartido.
	now := time.Now()
	entry := &stats.Entry{
		Value:     []byte(`{"total":7}`),
		StoredAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	require.NoError(t, shared.Set(ctx, key, entry, time.Hour))
	require.Equal(t, 0, fast.Len())

	fb := &fallbackCounter{err: errors.New("no debería llamarse")}
	var out payload
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryInventory, &out, fb.fn))
	assert.Equal(t, 7, out.Total)
	assert.Equal(t, 0, fb.calls)
	assert.Equal(t, 1, fast.Len(), "el hit compartido se promueve al nivel rápido")
}

func TestFetch_EntradaVencidaRecalcula(t *testing.T) {
	engine, fast, _ := newTestEngine(t)
	ctx := context.Background()
	key := stats.Key("realtime", "all")

	// Entrada lógicamente vencida pero físicamente retenida.
	now := time.Now()
	stale := &stats.Entry{
		Value:     []byte(`{"total":1}`),
		StoredAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}
	require.NoError(t, fast.Set(ctx, key, stale, time.Hour))

	fb := &fallbackCounter{value: payload{Total: 2}}
	var out payload
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryRealtime, &out, fb.fn))
	assert.Equal(t, 2, out.Total, "una entrada vencida no se sirve si el recálculo funciona")
	assert.Equal(t, 1, fb.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Degradación
// ──────────────────────────────────────────────────────────────────────────────

func TestFetch_RecalculoFallidoSirveVencido(t *testing.T) {
	engine, fast, _ := newTestEngine(t)
	ctx := context.Background()
	key := stats.Key("daily", "2026-08-31", "all")

	now := time.Now()
	stale := &stats.Entry{
		Value:     []byte(`{"total":99}`),
		StoredAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}
	require.NoError(t, fast.Set(ctx, key, stale, time.Hour))

	fb := &fallbackCounter{err: errors.New("base de datos caída")}
	var out payload
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryDailyToday, &out, fb.fn),
		"con un valor vencido disponible, el recálculo fallido degrada en vez de fallar")
	assert.Equal(t, 99, out.Total)
}

func TestFetch_RecalculoFallidoSinVencidoPropaga(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	fb := &fallbackCounter{err: errors.New("base de datos caída")}

	var out payload
	err := engine.Fetch(context.Background(), stats.Key("daily", "x"), stats.CategoryDailyToday, &out, fb.fn)
	require.Error(t, err, "sin valor vencido no hay nada que degradar")
	assert.ErrorContains(t, err, "base de datos caída")
}

func TestFetch_NivelCaidoNoEsFatal(t *testing.T) {
	// Nivel compartido caído (Redis fuera): la lectura sigue funcionando
	// con el nivel rápido y el fallback.
	fast := memcache.New(0)
	t.Cleanup(fast.Close)
	engine := stats.NewEngine(fast, brokenStore{}, testCacheConfig(), logger.Nop())

	fb := &fallbackCounter{value: payload{Total: 5}}
	var out payload
	require.NoError(t, engine.Fetch(context.Background(), stats.Key("transit", "hoy"), stats.CategoryTransit, &out, fb.fn))
	assert.Equal(t, 5, out.Total)
	assert.Equal(t, 1, fb.calls)

	// Y la siguiente lectura acierta en el nivel rápido.
	out = payload{}
	require.NoError(t, engine.Fetch(context.Background(), stats.Key("transit", "hoy"), stats.CategoryTransit, &out, fb.fn))
	assert.Equal(t, 1, fb.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Purga y TTL
// ──────────────────────────────────────────────────────────────────────────────

func TestPurge_FuerzaRecalculo(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	fb := &fallbackCounter{value: payload{Total: 1}}
	ctx := context.Background()
	key := stats.Key("daily", "2026-09-01", "all")

	var out payload
	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryDailyToday, &out, fb.fn))
	require.Equal(t, 1, fb.calls)

	engine.Purge(ctx, stats.Pattern("daily"))

	require.NoError(t, engine.Fetch(ctx, key, stats.CategoryDailyToday, &out, fb.fn))
	assert.Equal(t, 2, fb.calls, "tras la purga el valor se recalcula")
}

func TestTTL_PorCategoria(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	cfg := testCacheConfig()

	assert.Equal(t, cfg.DailyHistorical, engine.TTL(stats.CategoryDailyHistorical),
		"los días cerrados viven mucho más que el día en curso")
	assert.Equal(t, cfg.DailyToday, engine.TTL(stats.CategoryDailyToday))
	assert.Equal(t, cfg.Realtime, engine.TTL(stats.CategoryRealtime))
	assert.Greater(t, engine.TTL(stats.CategoryDailyHistorical), engine.TTL(stats.CategoryDailyToday))
}

// ──────────────────────────────────────────────────────────────────────────────
// Llaves
// ──────────────────────────────────────────────────────────────────────────────

func TestKey_Determinista(t *testing.T) {
	a := stats.Key("daily", "2026-09-01", "WH-1", "u", "9")
	b := stats.Key("daily", "2026-09-01", "WH-1", "u", "9")
	assert.Equal(t, a, b, "el mismo alcance lógico produce la misma llave")
	assert.Equal(t, "stats:daily:v1:2026-09-01:WH-1:u:9", a)
}

func TestPattern_CasaConSusLlaves(t *testing.T) {
	assert.Equal(t, "stats:daily:*", stats.Pattern("daily"))
}

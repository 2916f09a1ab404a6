package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
	"github.com/tu-usuario/warehouse-ops/internal/infrastructure/rediscache"
)

func newStore(t *testing.T) (*rediscache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return rediscache.New(client, "test"), mr
}

func entryAlive() *stats.Entry {
	now := time.Now()
	return &stats.Entry{Value: []byte(`{"n":1}`), StoredAt: now, ExpiresAt: now.Add(time.Minute)}
}

func TestStore_SetGet(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "stats:daily:v1:hoy", entryAlive(), time.Hour))

	got, err := s.Get(ctx, "stats:daily:v1:hoy")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"n":1}`), got.Value)
}

func TestStore_MissDeLlaveInexistente(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, stats.ErrCacheMiss)
}

func TestStore_PrefijoSeparaDespliegues(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, s.Set(context.Background(), "k", entryAlive(), time.Hour))

	// La llave real en Redis lleva el prefijo del despliegue.
	assert.True(t, mr.Exists("test:k"))
	assert.False(t, mr.Exists("k"))
}

func TestStore_RetencionFisicaEsTTLDeRedis(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", entryAlive(), time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("test:k"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, stats.ErrCacheMiss)
}

func TestStore_EntradaVencidaLogicamenteSeDevuelve(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	now := time.Now()
	stale := &stats.Entry{
		Value:     []byte(`{"n":9}`),
		StoredAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}
	require.NoError(t, s.Set(ctx, "k", stale, time.Hour))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err, "mientras Redis retenga la envoltura, se devuelve aunque venció")
	assert.True(t, got.Expired(now))
}

func TestStore_EnvolturaCorruptaEsMiss(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set("test:k", "esto no es JSON"))

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, stats.ErrCacheMiss,
		"una envoltura corrupta se trata como miss para que el valor se recalcule")
}

func TestStore_DeletePattern(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	for _, k := range []string{
		"stats:daily:v1:2026-09-01:all",
		"stats:daily:v1:2026-08-31:all",
		"stats:inventory:v1:WH-1",
	} {
		require.NoError(t, s.Set(ctx, k, entryAlive(), time.Hour))
	}

	n, err := s.DeletePattern(ctx, "stats:daily:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Get(ctx, "stats:inventory:v1:WH-1")
	assert.NoError(t, err, "las llaves de otras estadísticas sobreviven")
	_, err = s.Get(ctx, "stats:daily:v1:2026-09-01:all")
	assert.ErrorIs(t, err, stats.ErrCacheMiss)
}

func TestStore_DeletePatternSinCoincidencias(t *testing.T) {
	s, _ := newStore(t)
	n, err := s.DeletePattern(context.Background(), "stats:nada:*")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

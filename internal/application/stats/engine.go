package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tu-usuario/warehouse-ops/pkg/config"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// Engine caché de lectura a través sobre dos niveles: primero el rápido en
// proceso, luego el compartido; en miss de ambos calcula con el fallback y
// escribe en los dos con vencimiento `now + TTL(categoría)`.
//
// Los errores de caché nunca son fatales para una lectura: un nivel caído
// se registra y se sigue con el siguiente; si el fallback falla y existe un
// valor vencido en algún nivel, ese valor se sirve como respuesta degradada.
type Engine struct {
	fast   CacheStore
	shared CacheStore
	cfg    config.CacheConfig
	log    *logger.Logger
}

// NewEngine construye el motor. Se crea una vez al inicio del proceso y se
// inyecta a los servicios; no hay estado global.
func NewEngine(fast, shared CacheStore, cfg config.CacheConfig, log *logger.Logger) *Engine {
	return &Engine{fast: fast, shared: shared, cfg: cfg, log: log}
}

// TTL devuelve el TTL configurado de la categoría.
func (e *Engine) TTL(cat Category) time.Duration {
	switch cat {
	case CategoryDashboard:
		return e.cfg.Dashboard
	case CategoryDailyToday:
		return e.cfg.DailyToday
	case CategoryDailyHistorical:
		return e.cfg.DailyHistorical
	case CategoryPeriodToday:
		return e.cfg.PeriodToday
	case CategoryPeriodHistorical:
		return e.cfg.PeriodHistorical
	case CategoryWarehouseSummary:
		return e.cfg.WarehouseSummary
	case CategoryInventory:
		return e.cfg.Inventory
	case CategoryTransit:
		return e.cfg.Transit
	case CategoryCustomerRanking:
		return e.cfg.CustomerRanking
	case CategoryRealtime:
		return e.cfg.Realtime
	default:
		return e.cfg.Realtime
	}
}

// Fetch resuelve key con lectura a través: nivel rápido, nivel compartido
// (promoviendo al rápido en hit), y por último fallback. El resultado del
// fallback se serializa a JSON, se escribe en ambos niveles y se
// deserializa en dest.
//
// No hay deduplicación single-flight: varios misses concurrentes de la
// misma llave recalculan cada uno por su lado. Aceptable porque el cálculo
// es de solo lectura e idempotente.
func (e *Engine) Fetch(ctx context.Context, key string, cat Category, dest any, fallback func(ctx context.Context) (any, error)) error {
	now := time.Now()
	var stale *Entry

	if ent, err := e.fast.Get(ctx, key); err == nil {
		if !ent.Expired(now) {
			return json.Unmarshal(ent.Value, dest)
		}
		stale = ent
	} else if !errors.Is(err, ErrCacheMiss) {
		e.log.Warn().Err(err).Str("key", key).Msg("nivel rápido de caché falló en lectura")
	}

	if ent, err := e.shared.Get(ctx, key); err == nil {
		if !ent.Expired(now) {
			// Promover al nivel rápido por lo que le quede de vida
			if err := e.fast.Set(ctx, key, ent, time.Until(ent.ExpiresAt)+e.cfg.StaleGrace); err != nil {
				e.log.Warn().Err(err).Str("key", key).Msg("promoción al nivel rápido falló")
			}
			return json.Unmarshal(ent.Value, dest)
		}
		if stale == nil {
			stale = ent
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		e.log.Warn().Err(err).Str("key", key).Msg("nivel compartido de caché falló en lectura")
	}

	value, err := fallback(ctx)
	if err != nil {
		if stale != nil {
			e.log.Warn().Err(err).Str("key", key).
				Time("stored_at", stale.StoredAt).
				Msg("recálculo falló; se sirve valor vencido como respuesta degradada")
			return json.Unmarshal(stale.Value, dest)
		}
		return fmt.Errorf("recalcular %s: %w", key, err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}

	ttl := e.TTL(cat)
	entry := &Entry{Value: payload, StoredAt: now, ExpiresAt: now.Add(ttl)}
	keepFor := ttl + e.cfg.StaleGrace
	if err := e.fast.Set(ctx, key, entry, keepFor); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("escritura al nivel rápido falló")
	}
	if err := e.shared.Set(ctx, key, entry, keepFor); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("escritura al nivel compartido falló")
	}
	return json.Unmarshal(payload, dest)
}

// Purge borra un patrón de llaves en ambos niveles. Best-effort: la falla
// de un nivel se registra y no bloquea; la llave afectada se corrige sola
// al vencer su TTL.
func (e *Engine) Purge(ctx context.Context, pattern string) {
	if n, err := e.fast.DeletePattern(ctx, pattern); err != nil {
		e.log.Warn().Err(err).Str("pattern", pattern).Msg("purga del nivel rápido falló")
	} else if n > 0 {
		e.log.Debug().Str("pattern", pattern).Int("deleted", n).Msg("purga nivel rápido")
	}
	if n, err := e.shared.DeletePattern(ctx, pattern); err != nil {
		e.log.Warn().Err(err).Str("pattern", pattern).Msg("purga del nivel compartido falló")
	} else if n > 0 {
		e.log.Debug().Str("pattern", pattern).Int("deleted", n).Msg("purga nivel compartido")
	}
}

package stats

import (
	"context"
	"fmt"

	"github.com/tu-usuario/warehouse-ops/internal/application/outbound"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// Coordinator traduce un evento de mutación del libro en el conjunto de
// patrones de llave que deben purgarse en ambos niveles de caché.
//
// Es deliberadamente conservador: sobre-invalidar cuesta un recálculo de
// más; sub-invalidar cuesta una lectura vieja. Por eso purga patrones más
// amplios de lo estrictamente necesario.
type Coordinator struct {
	engine *Engine
	log    *logger.Logger
}

var _ outbound.Invalidator = (*Coordinator)(nil)

// NewCoordinator construye el coordinador sobre el motor de caché.
func NewCoordinator(engine *Engine, log *logger.Logger) *Coordinator {
	return &Coordinator{engine: engine, log: log}
}

// Invalidate consume el evento post-commit del mutador. Best-effort y sin
// reintentos: una purga fallida queda registrada y la llave se corrige sola
// cuando vence el TTL de su categoría (techo de consistencia eventual).
func (c *Coordinator) Invalidate(ctx context.Context, event outbound.InvalidationEvent) {
	patterns := []string{
		Pattern("dashboard"),
		Pattern("daily"),
		Pattern("period"),
		Pattern("kpi"),
		Pattern("realtime"),
		Pattern("transit"),
		Pattern("customers"),
		Pattern("top-customers"),
		Pattern("top-routes"),
		Pattern("busy-warehouses"),
	}
	if event.WarehouseID != "" {
		patterns = append(patterns,
			Pattern("warehouse-summary"),
			fmt.Sprintf("%s:inventory:%s:%s*", keyPrefix, keyVersion, event.WarehouseID),
			fmt.Sprintf("%s:inventory:%s:all*", keyPrefix, keyVersion),
		)
	} else {
		patterns = append(patterns, Pattern("warehouse-summary"), Pattern("inventory"))
	}

	c.log.Debug().
		Str("warehouse_id", event.WarehouseID).
		Int("id_codes", len(event.IDCodes)).
		Int("patterns", len(patterns)).
		Msg("invalidando caché de estadísticas")

	for _, p := range patterns {
		c.engine.Purge(ctx, p)
	}
}

// InvalidateAll purga toda la caché de estadísticas. Lo usan los caminos de
// escritura CRUD externos al núcleo (entradas) y la operación administrativa
// de limpieza manual.
func (c *Coordinator) InvalidateAll(ctx context.Context) {
	c.engine.Purge(ctx, keyPrefix+":*")
}

package outbound

import (
	"context"
	"time"

	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// salidas: o el lote completo se confirma o nada queda escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		recordRepo repository.OutboundRecordRepository,
	) error) error
}

// InvalidationEvent señal emitida tras el Commit de un lote: qué bodega,
// qué fecha y qué códigos de identificación se tocaron. Campos vacíos
// significan "todo". La consume exactamente una vez el coordinador de
// invalidación de caché.
type InvalidationEvent struct {
	WarehouseID string
	Date        time.Time
	IDCodes     []string
}

// Invalidator puerto hacia el coordinador de invalidación. La llamada es
// best-effort: el emisor no espera confirmación ni reintenta; una purga
// fallida se corrige sola cuando vence el TTL de la categoría.
type Invalidator interface {
	Invalidate(ctx context.Context, event InvalidationEvent)
}

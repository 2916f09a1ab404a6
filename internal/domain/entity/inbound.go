package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundRecord registro de entrada. Su escritura ocurre fuera de este
// núcleo (CRUD de entradas); aquí solo participa en las agregaciones de
// estadísticas (resumen por bodega, series de período).
type InboundRecord struct {
	ID          string
	IDCode      string
	Customer    string
	Pallets     int
	Packages    int
	Weight      decimal.Decimal
	Volume      decimal.Decimal
	WarehouseID string
	InboundAt   time.Time
	CreatedAt   time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro de salida. El tipo distingue una salida normal de las
// variantes de devolución (bodega trasera -> frente) y de traslado
// (frente -> bodega trasera), que siempre se procesan con política estricta.
const (
	RecordTypeOutbound         = "OUTBOUND"
	RecordTypeBackendReturn    = "BACKEND_RETURN"
	RecordTypeFrontendTransfer = "FRONTEND_TRANSFER"
)

// OutboundCommon campos comunes de un lote de salida, compartidos por todas
// sus líneas.
type OutboundCommon struct {
	WarehouseID   string
	PlateNumber   string
	Destination   string
	Receiver      string
	DepartureTime string // texto del formulario; se intenta parsear contra una lista ordenada de formatos
	UserID        string
}

// OutboundLine una línea del lote tal como llega del formulario. Las
// cantidades viajan como texto: deben parsear como enteros no negativos
// ("1.5" se rechaza, no se redondea).
type OutboundLine struct {
	IDCode        string
	Pallets       string
	Packages      string
	Remarks       string
	DocumentCount string
}

// OutboundLineRecord registro persistido por cada línea procesada de un lote.
type OutboundLineRecord struct {
	ID          string
	BatchNumber string
	RecordType  string
	IDCode      string
	Customer    string
	Pallets     int
	Packages    int
	Weight      decimal.Decimal
	Volume      decimal.Decimal
	WarehouseID string
	PlateNumber string
	Destination string
	Receiver    string
	Remarks     string
	OutboundAt  time.Time
	CreatedAt   time.Time
	CreatedBy   string
}

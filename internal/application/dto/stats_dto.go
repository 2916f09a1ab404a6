package dto

import "github.com/shopspring/decimal"

// DailyStatsDTO totales de actividad de un día calendario.
type DailyStatsDTO struct {
	Date     string          `json:"date"` // "2006-01-02"
	Records  int64           `json:"records"`
	Pallets  int64           `json:"pallets"`
	Packages int64           `json:"packages"`
	Weight   decimal.Decimal `json:"weight"`
	Volume   decimal.Decimal `json:"volume"`
}

// PeriodStatsDTO serie por día dentro de un rango cerrado.
type PeriodStatsDTO struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Points []DailyStatsDTO `json:"points"`
}

// WarehouseSummaryDTO resumen entradas/salidas por bodega de un día.
type WarehouseSummaryDTO struct {
	Date       string                   `json:"date"`
	Warehouses []WarehouseSummaryRowDTO `json:"warehouses"`
}

// WarehouseSummaryRowDTO una bodega del resumen; el lado sin actividad va en cero.
type WarehouseSummaryRowDTO struct {
	WarehouseID      string `json:"warehouse_id"`
	InboundRecords   int64  `json:"inbound_records"`
	InboundPallets   int64  `json:"inbound_pallets"`
	InboundPackages  int64  `json:"inbound_packages"`
	OutboundRecords  int64  `json:"outbound_records"`
	OutboundPallets  int64  `json:"outbound_pallets"`
	OutboundPackages int64  `json:"outbound_packages"`
}

// InventoryOverviewDTO fotografía del inventario en piso.
type InventoryOverviewDTO struct {
	WarehouseID string          `json:"warehouse_id,omitempty"` // vacío = todas
	Rows        int64           `json:"rows"`
	Customers   int64           `json:"customers"`
	Pallets     int64           `json:"pallets"`
	Packages    int64           `json:"packages"`
	Weight      decimal.Decimal `json:"weight"`
	Volume      decimal.Decimal `json:"volume"`
}

// RouteStatsDTO agregados por destino.
type RouteStatsDTO struct {
	Destination string `json:"destination"`
	Batches     int64  `json:"batches"`
	Packages    int64  `json:"packages"`
}

// CustomerStatsDTO agregados por cliente.
type CustomerStatsDTO struct {
	Customer string          `json:"customer"`
	Records  int64           `json:"records"`
	Pallets  int64           `json:"pallets"`
	Packages int64           `json:"packages"`
	Weight   decimal.Decimal `json:"weight"`
}

// WarehouseActivityDTO ranking de bodegas por movimientos del día.
type WarehouseActivityDTO struct {
	WarehouseID string `json:"warehouse_id"`
	Movements   int64  `json:"movements"`
	Packages    int64  `json:"packages"`
}

// KPIEntryDTO un indicador con su valor actual, el anterior y el crecimiento
// porcentual redondeado a 2 decimales.
type KPIEntryDTO struct {
	Name    string          `json:"name"`
	Current decimal.Decimal `json:"current"`
	Last    decimal.Decimal `json:"last"`
	Growth  decimal.Decimal `json:"growth"` // 100 si last==0 y current>0; 0 si ambos cero
}

// KPIIndicatorsDTO comparativas día-contra-día y mes-contra-mes.
type KPIIndicatorsDTO struct {
	Daily   []KPIEntryDTO `json:"daily"`
	Monthly []KPIEntryDTO `json:"monthly"`
}

// RealtimeStatsDTO contadores del día en curso (TTL de segundos).
type RealtimeStatsDTO struct {
	OutboundRecords  int64 `json:"outbound_records"`
	OutboundPallets  int64 `json:"outbound_pallets"`
	OutboundPackages int64 `json:"outbound_packages"`
	InboundRecords   int64 `json:"inbound_records"`
	InboundPallets   int64 `json:"inbound_pallets"`
	InboundPackages  int64 `json:"inbound_packages"`
}

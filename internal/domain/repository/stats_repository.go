package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotals agregados de actividad de un día (o de un rango reducido a un
// solo grupo): registros, estibas, bultos, peso y volumen.
type DailyTotals struct {
	Records  int64
	Pallets  int64
	Packages int64
	Weight   decimal.Decimal
	Volume   decimal.Decimal
}

// DaySeriesPoint un punto de la serie por día calendario.
type DaySeriesPoint struct {
	Day    string // "2006-01-02"
	Totals DailyTotals
}

// WarehouseDaySummary resumen entradas/salidas de una bodega en un día.
// Producto de un FULL OUTER JOIN: una bodega con actividad de un solo lado
// aparece con el otro lado en cero.
type WarehouseDaySummary struct {
	WarehouseID string
	Inbound     DailyTotals
	Outbound    DailyTotals
}

// CustomerTotals agregados por cliente dentro de un rango.
type CustomerTotals struct {
	Customer string
	Records  int64
	Pallets  int64
	Packages int64
	Weight   decimal.Decimal
}

// RouteTotals agregados por destino (ruta) dentro de un rango.
type RouteTotals struct {
	Destination string
	Batches     int64
	Packages    int64
}

// WarehouseActivity ranking de bodegas por movimientos del día.
type WarehouseActivity struct {
	WarehouseID string
	Movements   int64
	Packages    int64
}

// InventoryTotals fotografía del inventario en piso.
type InventoryTotals struct {
	Rows      int64
	Customers int64
	Pallets   int64
	Packages  int64
	Weight    decimal.Decimal
	Volume    decimal.Decimal
}

// StatsRepository consultas de agregación de solo lectura sobre el libro de
// inventario y los registros de entrada/salida. Deterministas: mismas filas
// subyacentes, mismo resultado. El orden en empates de los rankings sigue el
// orden de iteración de la base de datos (no determinista, documentado).
type StatsRepository interface {
	OutboundDailyTotals(ctx context.Context, day time.Time, warehouseID string) (DailyTotals, error)
	InboundDailyTotals(ctx context.Context, day time.Time, warehouseID string) (DailyTotals, error)
	OutboundPeriodSeries(ctx context.Context, from, to time.Time, warehouseID string) ([]DaySeriesPoint, error)
	WarehouseSummary(ctx context.Context, day time.Time) ([]WarehouseDaySummary, error)
	InventoryOverview(ctx context.Context, warehouseID string) (InventoryTotals, error)
	TransitOverview(ctx context.Context, day time.Time, warehouseID string) ([]RouteTotals, error)
	CustomerOverview(ctx context.Context, from, to time.Time, warehouseID string) ([]CustomerTotals, error)
	TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerTotals, error)
	TopRoutes(ctx context.Context, from, to time.Time, limit int) ([]RouteTotals, error)
	BusyWarehouses(ctx context.Context, day time.Time, limit int) ([]WarehouseActivity, error)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de agregación de solo lectura sobre registros de
// salida, registros de entrada y filas de existencias. Siempre sobre el
// pool: nunca participa en la transacción del mutador.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// dayRange [00:00 del día, 00:00 del día siguiente).
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// OutboundDailyTotals suma registros/estibas/bultos/peso/volumen de las
// salidas de un día, opcionalmente filtrado por bodega ('' = todas).
// COALESCE devuelve ceros cuando el día no tuvo actividad.
func (r *StatsRepo) OutboundDailyTotals(ctx context.Context, day time.Time, warehouseID string) (repository.DailyTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                      AS records,
	    COALESCE(SUM(pallets),  0)    AS pallets,
	    COALESCE(SUM(packages), 0)    AS packages,
	    COALESCE(SUM(weight),   0)    AS weight,
	    COALESCE(SUM(volume),   0)    AS volume
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	  AND ($3 = '' OR warehouse_id = $3)`

	start, end := dayRange(day)
	var t repository.DailyTotals
	err := r.pool.QueryRow(ctx, query, start, end, warehouseID).
		Scan(&t.Records, &t.Pallets, &t.Packages, &t.Weight, &t.Volume)
	if err != nil {
		return repository.DailyTotals{}, fmt.Errorf("stats.OutboundDailyTotals: %w", err)
	}
	return t, nil
}

// InboundDailyTotals contrapartida de entradas del mismo día.
func (r *StatsRepo) InboundDailyTotals(ctx context.Context, day time.Time, warehouseID string) (repository.DailyTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                      AS records,
	    COALESCE(SUM(pallets),  0)    AS pallets,
	    COALESCE(SUM(packages), 0)    AS packages,
	    COALESCE(SUM(weight),   0)    AS weight,
	    COALESCE(SUM(volume),   0)    AS volume
	FROM inbound_records
	WHERE inbound_at >= $1 AND inbound_at < $2
	  AND ($3 = '' OR warehouse_id = $3)`

	start, end := dayRange(day)
	var t repository.DailyTotals
	err := r.pool.QueryRow(ctx, query, start, end, warehouseID).
		Scan(&t.Records, &t.Pallets, &t.Packages, &t.Weight, &t.Volume)
	if err != nil {
		return repository.DailyTotals{}, fmt.Errorf("stats.InboundDailyTotals: %w", err)
	}
	return t, nil
}

// OutboundPeriodSeries serie de salidas agrupada por día calendario dentro
// del rango cerrado [from, to]. Los días sin actividad no aparecen.
func (r *StatsRepo) OutboundPeriodSeries(ctx context.Context, from, to time.Time, warehouseID string) ([]repository.DaySeriesPoint, error) {
	const query = `
	SELECT
	    to_char(date_trunc('day', outbound_at), 'YYYY-MM-DD') AS day,
	    COUNT(*)                      AS records,
	    COALESCE(SUM(pallets),  0)    AS pallets,
	    COALESCE(SUM(packages), 0)    AS packages,
	    COALESCE(SUM(weight),   0)    AS weight,
	    COALESCE(SUM(volume),   0)    AS volume
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	  AND ($3 = '' OR warehouse_id = $3)
	GROUP BY date_trunc('day', outbound_at)
	ORDER BY day`

	start, _ := dayRange(from)
	_, end := dayRange(to)
	rows, err := r.pool.Query(ctx, query, start, end, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("stats.OutboundPeriodSeries: %w", err)
	}
	defer rows.Close()

	var series []repository.DaySeriesPoint
	for rows.Next() {
		var p repository.DaySeriesPoint
		if err := rows.Scan(&p.Day, &p.Totals.Records, &p.Totals.Pallets,
			&p.Totals.Packages, &p.Totals.Weight, &p.Totals.Volume); err != nil {
			return nil, fmt.Errorf("stats.OutboundPeriodSeries scan: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// WarehouseSummary FULL OUTER JOIN de los agregados de entrada y salida del
// día por bodega: una bodega con actividad de un solo lado aparece con el
// otro lado en cero.
func (r *StatsRepo) WarehouseSummary(ctx context.Context, day time.Time) ([]repository.WarehouseDaySummary, error) {
	const query = `
	WITH inbound AS (
	    SELECT warehouse_id,
	           COUNT(*)                   AS records,
	           COALESCE(SUM(pallets), 0)  AS pallets,
	           COALESCE(SUM(packages), 0) AS packages
	    FROM inbound_records
	    WHERE inbound_at >= $1 AND inbound_at < $2
	    GROUP BY warehouse_id
	), outbound AS (
	    SELECT warehouse_id,
	           COUNT(*)                   AS records,
	           COALESCE(SUM(pallets), 0)  AS pallets,
	           COALESCE(SUM(packages), 0) AS packages
	    FROM outbound_records
	    WHERE outbound_at >= $1 AND outbound_at < $2
	    GROUP BY warehouse_id
	)
	SELECT
	    COALESCE(i.warehouse_id, o.warehouse_id) AS warehouse_id,
	    COALESCE(i.records,  0), COALESCE(i.pallets, 0), COALESCE(i.packages, 0),
	    COALESCE(o.records,  0), COALESCE(o.pallets, 0), COALESCE(o.packages, 0)
	FROM inbound i
	FULL OUTER JOIN outbound o ON o.warehouse_id = i.warehouse_id
	ORDER BY warehouse_id`

	start, end := dayRange(day)
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("stats.WarehouseSummary: %w", err)
	}
	defer rows.Close()

	var result []repository.WarehouseDaySummary
	for rows.Next() {
		var s repository.WarehouseDaySummary
		if err := rows.Scan(&s.WarehouseID,
			&s.Inbound.Records, &s.Inbound.Pallets, &s.Inbound.Packages,
			&s.Outbound.Records, &s.Outbound.Pallets, &s.Outbound.Packages); err != nil {
			return nil, fmt.Errorf("stats.WarehouseSummary scan: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// InventoryOverview fotografía del inventario en piso ('' = todas las bodegas).
func (r *StatsRepo) InventoryOverview(ctx context.Context, warehouseID string) (repository.InventoryTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                        AS rows,
	    COUNT(DISTINCT customer)        AS customers,
	    COALESCE(SUM(pallets),  0)      AS pallets,
	    COALESCE(SUM(packages), 0)      AS packages,
	    COALESCE(SUM(weight),   0)      AS weight,
	    COALESCE(SUM(volume),   0)      AS volume
	FROM stock_rows
	WHERE ($1 = '' OR warehouse_id = $1)`

	var t repository.InventoryTotals
	err := r.pool.QueryRow(ctx, query, warehouseID).
		Scan(&t.Rows, &t.Customers, &t.Pallets, &t.Packages, &t.Weight, &t.Volume)
	if err != nil {
		return repository.InventoryTotals{}, fmt.Errorf("stats.InventoryOverview: %w", err)
	}
	return t, nil
}

// TransitOverview lotes del día agrupados por destino (lo que va en ruta).
func (r *StatsRepo) TransitOverview(ctx context.Context, day time.Time, warehouseID string) ([]repository.RouteTotals, error) {
	const query = `
	SELECT
	    destination,
	    COUNT(DISTINCT batch_number)  AS batches,
	    COALESCE(SUM(packages), 0)   AS packages
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	  AND ($3 = '' OR warehouse_id = $3)
	GROUP BY destination
	ORDER BY packages DESC`

	start, end := dayRange(day)
	return r.queryRoutes(ctx, query, "stats.TransitOverview", start, end, warehouseID)
}

// CustomerOverview actividad por cliente dentro del rango.
func (r *StatsRepo) CustomerOverview(ctx context.Context, from, to time.Time, warehouseID string) ([]repository.CustomerTotals, error) {
	const query = `
	SELECT
	    customer,
	    COUNT(*)                    AS records,
	    COALESCE(SUM(pallets),  0)  AS pallets,
	    COALESCE(SUM(packages), 0)  AS packages,
	    COALESCE(SUM(weight),   0)  AS weight
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	  AND ($3 = '' OR warehouse_id = $3)
	GROUP BY customer
	ORDER BY packages DESC`

	start, _ := dayRange(from)
	_, end := dayRange(to)
	return r.queryCustomers(ctx, query, "stats.CustomerOverview", start, end, warehouseID)
}

// TopCustomers los `limit` clientes con más bultos en el rango. El orden en
// empates sigue la iteración de la base de datos (no determinista).
func (r *StatsRepo) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]repository.CustomerTotals, error) {
	const query = `
	SELECT
	    customer,
	    COUNT(*)                    AS records,
	    COALESCE(SUM(pallets),  0)  AS pallets,
	    COALESCE(SUM(packages), 0)  AS packages,
	    COALESCE(SUM(weight),   0)  AS weight
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	GROUP BY customer
	ORDER BY packages DESC
	LIMIT $3`

	start, _ := dayRange(from)
	_, end := dayRange(to)
	return r.queryCustomers(ctx, query, "stats.TopCustomers", start, end, limit)
}

// TopRoutes los `limit` destinos con más bultos en el rango.
func (r *StatsRepo) TopRoutes(ctx context.Context, from, to time.Time, limit int) ([]repository.RouteTotals, error) {
	const query = `
	SELECT
	    destination,
	    COUNT(DISTINCT batch_number) AS batches,
	    COALESCE(SUM(packages), 0)   AS packages
	FROM outbound_records
	WHERE outbound_at >= $1 AND outbound_at < $2
	GROUP BY destination
	ORDER BY packages DESC
	LIMIT $3`

	start, _ := dayRange(from)
	_, end := dayRange(to)
	return r.queryRoutes(ctx, query, "stats.TopRoutes", start, end, limit)
}

// BusyWarehouses bodegas con más movimientos (entradas + salidas) en el día.
func (r *StatsRepo) BusyWarehouses(ctx context.Context, day time.Time, limit int) ([]repository.WarehouseActivity, error) {
	const query = `
	SELECT warehouse_id,
	       COUNT(*)                    AS movements,
	       COALESCE(SUM(packages), 0)  AS packages
	FROM (
	    SELECT warehouse_id, packages FROM outbound_records
	    WHERE outbound_at >= $1 AND outbound_at < $2
	    UNION ALL
	    SELECT warehouse_id, packages FROM inbound_records
	    WHERE inbound_at >= $1 AND inbound_at < $2
	) activity
	GROUP BY warehouse_id
	ORDER BY movements DESC
	LIMIT $3`

	start, end := dayRange(day)
	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("stats.BusyWarehouses: %w", err)
	}
	defer rows.Close()

	var result []repository.WarehouseActivity
	for rows.Next() {
		var a repository.WarehouseActivity
		if err := rows.Scan(&a.WarehouseID, &a.Movements, &a.Packages); err != nil {
			return nil, fmt.Errorf("stats.BusyWarehouses scan: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *StatsRepo) queryRoutes(ctx context.Context, query, op string, args ...any) ([]repository.RouteTotals, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []repository.RouteTotals
	for rows.Next() {
		var t repository.RouteTotals
		if err := rows.Scan(&t.Destination, &t.Batches, &t.Packages); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *StatsRepo) queryCustomers(ctx context.Context, query, op string, args ...any) ([]repository.CustomerTotals, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []repository.CustomerTotals
	for rows.Next() {
		var t repository.CustomerTotals
		if err := rows.Scan(&t.Customer, &t.Records, &t.Pallets, &t.Packages, &t.Weight); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

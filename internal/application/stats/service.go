package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/internal/domain"
	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
	domstats "github.com/tu-usuario/warehouse-ops/internal/domain/stats"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// Scope alcance explícito de una consulta de estadísticas: bodega, usuario
// y rango. Un usuario sin privilegio de superadmin queda anclado a su
// bodega; jamás se sustituye por un objeto de usuario improvisado.
type Scope struct {
	WarehouseID  string // "" = todas (solo superadmin)
	UserID       string
	IsSuperAdmin bool
	Date         time.Time // para estadísticas de un día; zero = hoy
	From, To     time.Time // para series de período
	Limit        int       // para rankings; <= 0 usa el default
}

const defaultRankingLimit = 10

// warehouse devuelve la bodega efectiva del alcance.
func (s Scope) warehouse() string {
	return s.WarehouseID
}

// userPart partes de llave por usuario: las estadísticas con visibilidad
// restringida incluyen el id de usuario para no compartir caché entre
// permisos distintos.
func (s Scope) userPart() []string {
	if s.IsSuperAdmin {
		return nil
	}
	return []string{"u", s.UserID}
}

// day fecha efectiva (hoy si no se indicó), truncada a día calendario.
func (s Scope) day(now time.Time) time.Time {
	d := s.Date
	if d.IsZero() {
		d = now
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func (s Scope) limit() int {
	if s.Limit <= 0 {
		return defaultRankingLimit
	}
	return s.Limit
}

// StatisticsService resuelve cada estadística nombrada con composición
// explícita: el método de negocio llama engine.Fetch(key, categoría,
// fallback) directamente, sin envoltura mágica, de modo que el camino de
// lectura a través quede auditable.
type StatisticsService struct {
	engine *Engine
	repo   repository.StatsRepository
	log    *logger.Logger
}

// NewStatisticsService construye el servicio.
func NewStatisticsService(engine *Engine, repo repository.StatsRepository, log *logger.Logger) *StatisticsService {
	return &StatisticsService{engine: engine, repo: repo, log: log}
}

// GetStatistic despacha por nombre; es la operación genérica que el núcleo
// expone a la capa HTTP.
func (s *StatisticsService) GetStatistic(ctx context.Context, name string, scope Scope) (any, error) {
	switch name {
	case "daily-stats":
		return s.DailyStats(ctx, scope)
	case "period-stats":
		return s.PeriodStats(ctx, scope)
	case "warehouse-summary":
		return s.WarehouseSummary(ctx, scope)
	case "inventory-overview":
		return s.InventoryOverview(ctx, scope)
	case "transit-overview":
		return s.TransitOverview(ctx, scope)
	case "customer-overview":
		return s.CustomerOverview(ctx, scope)
	case "top-customers":
		return s.TopCustomers(ctx, scope)
	case "top-routes":
		return s.TopRoutes(ctx, scope)
	case "busy-warehouses":
		return s.BusyWarehouses(ctx, scope)
	case "kpi-indicators":
		return s.KPIIndicators(ctx, scope)
	case "realtime-stats":
		return s.RealtimeStats(ctx, scope)
	default:
		return nil, fmt.Errorf("estadística %q: %w", name, domain.ErrNotFound)
	}
}

// dailyCategory elige el bucket: los días cerrados no cambian con nueva
// actividad, así que viven mucho más en caché que el día en curso.
func dailyCategory(day, now time.Time) Category {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return CategoryDailyHistorical
	}
	return CategoryDailyToday
}

func periodCategory(to, now time.Time) Category {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if to.Before(today) {
		return CategoryPeriodHistorical
	}
	return CategoryPeriodToday
}

// DailyStats totales de salida de un día calendario.
func (s *StatisticsService) DailyStats(ctx context.Context, scope Scope) (dto.DailyStatsDTO, error) {
	now := time.Now()
	day := scope.day(now)
	wh := scope.warehouse()
	key := Key("daily", append([]string{day.Format(dayLayout), scopeAll(wh)}, scope.userPart()...)...)

	var out dto.DailyStatsDTO
	err := s.engine.Fetch(ctx, key, dailyCategory(day, now), &out, func(ctx context.Context) (any, error) {
		t, err := s.repo.OutboundDailyTotals(ctx, day, wh)
		if err != nil {
			return nil, err
		}
		return dailyDTO(day, t), nil
	})
	return out, err
}

// PeriodStats serie por día de un rango cerrado.
func (s *StatisticsService) PeriodStats(ctx context.Context, scope Scope) (dto.PeriodStatsDTO, error) {
	now := time.Now()
	from, to := scope.From, scope.To
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return dto.PeriodStatsDTO{}, fmt.Errorf("rango de período: %w", domain.ErrInvalidInput)
	}
	wh := scope.warehouse()
	key := Key("period", append([]string{from.Format(dayLayout), to.Format(dayLayout), scopeAll(wh)}, scope.userPart()...)...)

	var out dto.PeriodStatsDTO
	err := s.engine.Fetch(ctx, key, periodCategory(to, now), &out, func(ctx context.Context) (any, error) {
		points, err := s.repo.OutboundPeriodSeries(ctx, from, to, wh)
		if err != nil {
			return nil, err
		}
		res := dto.PeriodStatsDTO{
			From:   from.Format(dayLayout),
			To:     to.Format(dayLayout),
			Points: make([]dto.DailyStatsDTO, 0, len(points)),
		}
		for _, p := range points {
			res.Points = append(res.Points, dto.DailyStatsDTO{
				Date:     p.Day,
				Records:  p.Totals.Records,
				Pallets:  p.Totals.Pallets,
				Packages: p.Totals.Packages,
				Weight:   p.Totals.Weight,
				Volume:   p.Totals.Volume,
			})
		}
		return res, nil
	})
	return out, err
}

// WarehouseSummary resumen entradas/salidas por bodega de un día.
func (s *StatisticsService) WarehouseSummary(ctx context.Context, scope Scope) (dto.WarehouseSummaryDTO, error) {
	now := time.Now()
	day := scope.day(now)
	key := Key("warehouse-summary", day.Format(dayLayout))

	var out dto.WarehouseSummaryDTO
	err := s.engine.Fetch(ctx, key, CategoryWarehouseSummary, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.WarehouseSummary(ctx, day)
		if err != nil {
			return nil, err
		}
		res := dto.WarehouseSummaryDTO{Date: day.Format(dayLayout)}
		for _, r := range rows {
			res.Warehouses = append(res.Warehouses, dto.WarehouseSummaryRowDTO{
				WarehouseID:      r.WarehouseID,
				InboundRecords:   r.Inbound.Records,
				InboundPallets:   r.Inbound.Pallets,
				InboundPackages:  r.Inbound.Packages,
				OutboundRecords:  r.Outbound.Records,
				OutboundPallets:  r.Outbound.Pallets,
				OutboundPackages: r.Outbound.Packages,
			})
		}
		return res, nil
	})
	return out, err
}

// InventoryOverview fotografía del inventario en piso.
func (s *StatisticsService) InventoryOverview(ctx context.Context, scope Scope) (dto.InventoryOverviewDTO, error) {
	wh := scope.warehouse()
	key := Key("inventory", append([]string{scopeAll(wh)}, scope.userPart()...)...)

	var out dto.InventoryOverviewDTO
	err := s.engine.Fetch(ctx, key, CategoryInventory, &out, func(ctx context.Context) (any, error) {
		t, err := s.repo.InventoryOverview(ctx, wh)
		if err != nil {
			return nil, err
		}
		return dto.InventoryOverviewDTO{
			WarehouseID: wh,
			Rows:        t.Rows,
			Customers:   t.Customers,
			Pallets:     t.Pallets,
			Packages:    t.Packages,
			Weight:      t.Weight,
			Volume:      t.Volume,
		}, nil
	})
	return out, err
}

// TransitOverview lotes del día agrupados por destino.
func (s *StatisticsService) TransitOverview(ctx context.Context, scope Scope) ([]dto.RouteStatsDTO, error) {
	now := time.Now()
	day := scope.day(now)
	wh := scope.warehouse()
	key := Key("transit", day.Format(dayLayout), scopeAll(wh))

	var out []dto.RouteStatsDTO
	err := s.engine.Fetch(ctx, key, CategoryTransit, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.TransitOverview(ctx, day, wh)
		if err != nil {
			return nil, err
		}
		return routeDTOs(rows), nil
	})
	return out, err
}

// CustomerOverview actividad por cliente dentro del rango.
func (s *StatisticsService) CustomerOverview(ctx context.Context, scope Scope) ([]dto.CustomerStatsDTO, error) {
	from, to := scope.rangeOrMonth()
	wh := scope.warehouse()
	key := Key("customers", append([]string{from.Format(dayLayout), to.Format(dayLayout), scopeAll(wh)}, scope.userPart()...)...)

	var out []dto.CustomerStatsDTO
	err := s.engine.Fetch(ctx, key, CategoryCustomerRanking, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.CustomerOverview(ctx, from, to, wh)
		if err != nil {
			return nil, err
		}
		return customerDTOs(rows), nil
	})
	return out, err
}

// TopCustomers ranking de clientes por bultos, descendente. El orden en
// empates sigue la iteración de la base de datos.
func (s *StatisticsService) TopCustomers(ctx context.Context, scope Scope) ([]dto.CustomerStatsDTO, error) {
	from, to := scope.rangeOrMonth()
	limit := scope.limit()
	key := Key("top-customers", from.Format(dayLayout), to.Format(dayLayout), fmt.Sprintf("l%d", limit))

	var out []dto.CustomerStatsDTO
	err := s.engine.Fetch(ctx, key, CategoryCustomerRanking, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.TopCustomers(ctx, from, to, limit)
		if err != nil {
			return nil, err
		}
		return customerDTOs(rows), nil
	})
	return out, err
}

// TopRoutes ranking de destinos por bultos, descendente.
func (s *StatisticsService) TopRoutes(ctx context.Context, scope Scope) ([]dto.RouteStatsDTO, error) {
	from, to := scope.rangeOrMonth()
	limit := scope.limit()
	key := Key("top-routes", from.Format(dayLayout), to.Format(dayLayout), fmt.Sprintf("l%d", limit))

	var out []dto.RouteStatsDTO
	err := s.engine.Fetch(ctx, key, CategoryCustomerRanking, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.TopRoutes(ctx, from, to, limit)
		if err != nil {
			return nil, err
		}
		return routeDTOs(rows), nil
	})
	return out, err
}

// BusyWarehouses bodegas con más movimientos en el día.
func (s *StatisticsService) BusyWarehouses(ctx context.Context, scope Scope) ([]dto.WarehouseActivityDTO, error) {
	now := time.Now()
	day := scope.day(now)
	limit := scope.limit()
	key := Key("busy-warehouses", day.Format(dayLayout), fmt.Sprintf("l%d", limit))

	var out []dto.WarehouseActivityDTO
	err := s.engine.Fetch(ctx, key, CategoryWarehouseSummary, &out, func(ctx context.Context) (any, error) {
		rows, err := s.repo.BusyWarehouses(ctx, day, limit)
		if err != nil {
			return nil, err
		}
		res := make([]dto.WarehouseActivityDTO, 0, len(rows))
		for _, r := range rows {
			res = append(res, dto.WarehouseActivityDTO{
				WarehouseID: r.WarehouseID,
				Movements:   r.Movements,
				Packages:    r.Packages,
			})
		}
		return res, nil
	})
	return out, err
}

// KPIIndicators comparativas hoy-contra-ayer y mes-contra-mes con la tasa
// de crecimiento definida en domain/stats.
func (s *StatisticsService) KPIIndicators(ctx context.Context, scope Scope) (dto.KPIIndicatorsDTO, error) {
	now := time.Now()
	wh := scope.warehouse()
	key := Key("kpi", append([]string{now.Format(dayLayout), scopeAll(wh)}, scope.userPart()...)...)

	var out dto.KPIIndicatorsDTO
	err := s.engine.Fetch(ctx, key, CategoryDailyToday, &out, func(ctx context.Context) (any, error) {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		yesterday := today.AddDate(0, 0, -1)

		cur, err := s.repo.OutboundDailyTotals(ctx, today, wh)
		if err != nil {
			return nil, err
		}
		prev, err := s.repo.OutboundDailyTotals(ctx, yesterday, wh)
		if err != nil {
			return nil, err
		}

		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		lastMonthStart := monthStart.AddDate(0, -1, 0)
		lastMonthEnd := monthStart.AddDate(0, 0, -1)

		curMonth, err := s.sumPeriod(ctx, monthStart, today, wh)
		if err != nil {
			return nil, err
		}
		prevMonth, err := s.sumPeriod(ctx, lastMonthStart, lastMonthEnd, wh)
		if err != nil {
			return nil, err
		}

		return dto.KPIIndicatorsDTO{
			Daily:   kpiEntries(cur, prev),
			Monthly: kpiEntries(curMonth, prevMonth),
		}, nil
	})
	return out, err
}

// RealtimeStats contadores del día en curso; TTL de segundos.
func (s *StatisticsService) RealtimeStats(ctx context.Context, scope Scope) (dto.RealtimeStatsDTO, error) {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	wh := scope.warehouse()
	key := Key("realtime", scopeAll(wh))

	var out dto.RealtimeStatsDTO
	err := s.engine.Fetch(ctx, key, CategoryRealtime, &out, func(ctx context.Context) (any, error) {
		outT, err := s.repo.OutboundDailyTotals(ctx, day, wh)
		if err != nil {
			return nil, err
		}
		inT, err := s.repo.InboundDailyTotals(ctx, day, wh)
		if err != nil {
			return nil, err
		}
		return dto.RealtimeStatsDTO{
			OutboundRecords:  outT.Records,
			OutboundPallets:  outT.Pallets,
			OutboundPackages: outT.Packages,
			InboundRecords:   inT.Records,
			InboundPallets:   inT.Pallets,
			InboundPackages:  inT.Packages,
		}, nil
	})
	return out, err
}

// rangeOrMonth devuelve el rango del alcance o, por defecto, el mes en curso.
func (s Scope) rangeOrMonth() (time.Time, time.Time) {
	if !s.From.IsZero() && !s.To.IsZero() && !s.To.Before(s.From) {
		return s.From, s.To
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return monthStart, today
}

// sumPeriod acumula la serie de un rango en un solo total.
func (s *StatisticsService) sumPeriod(ctx context.Context, from, to time.Time, warehouseID string) (repository.DailyTotals, error) {
	points, err := s.repo.OutboundPeriodSeries(ctx, from, to, warehouseID)
	if err != nil {
		return repository.DailyTotals{}, err
	}
	total := repository.DailyTotals{Weight: decimal.Zero, Volume: decimal.Zero}
	for _, p := range points {
		total.Records += p.Totals.Records
		total.Pallets += p.Totals.Pallets
		total.Packages += p.Totals.Packages
		total.Weight = total.Weight.Add(p.Totals.Weight)
		total.Volume = total.Volume.Add(p.Totals.Volume)
	}
	return total, nil
}

func dailyDTO(day time.Time, t repository.DailyTotals) dto.DailyStatsDTO {
	return dto.DailyStatsDTO{
		Date:     day.Format(dayLayout),
		Records:  t.Records,
		Pallets:  t.Pallets,
		Packages: t.Packages,
		Weight:   t.Weight,
		Volume:   t.Volume,
	}
}

func routeDTOs(rows []repository.RouteTotals) []dto.RouteStatsDTO {
	res := make([]dto.RouteStatsDTO, 0, len(rows))
	for _, r := range rows {
		res = append(res, dto.RouteStatsDTO{
			Destination: r.Destination,
			Batches:     r.Batches,
			Packages:    r.Packages,
		})
	}
	return res
}

func customerDTOs(rows []repository.CustomerTotals) []dto.CustomerStatsDTO {
	res := make([]dto.CustomerStatsDTO, 0, len(rows))
	for _, r := range rows {
		res = append(res, dto.CustomerStatsDTO{
			Customer: r.Customer,
			Records:  r.Records,
			Pallets:  r.Pallets,
			Packages: r.Packages,
			Weight:   r.Weight,
		})
	}
	return res
}

// kpiEntries arma los indicadores de un par de totales.
func kpiEntries(cur, prev repository.DailyTotals) []dto.KPIEntryDTO {
	return []dto.KPIEntryDTO{
		kpiEntryInt("records", cur.Records, prev.Records),
		kpiEntryInt("pallets", cur.Pallets, prev.Pallets),
		kpiEntryInt("packages", cur.Packages, prev.Packages),
		{
			Name:    "weight",
			Current: cur.Weight,
			Last:    prev.Weight,
			Growth:  domstats.GrowthRate(cur.Weight, prev.Weight),
		},
	}
}

func kpiEntryInt(name string, cur, prev int64) dto.KPIEntryDTO {
	return dto.KPIEntryDTO{
		Name:    name,
		Current: decimal.NewFromInt(cur),
		Last:    decimal.NewFromInt(prev),
		Growth:  domstats.GrowthRateInt(cur, prev),
	}
}

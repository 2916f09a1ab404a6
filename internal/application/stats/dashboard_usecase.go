package stats

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// DashboardAssembler compone el dashboard a partir de ~15 estadísticas
// cacheadas de forma independiente.
//
// Política de degradación parcial deliberada: cada llamada va envuelta por
// separado; si una falla se sustituye por su forma en cero y se anota en
// Degraded. El dashboard nunca falla completo por una sola sección — siempre
// responde con lo mejor disponible.
type DashboardAssembler struct {
	stats  *StatisticsService
	engine *Engine
	log    *logger.Logger
}

// NewDashboardAssembler construye el ensamblador.
func NewDashboardAssembler(stats *StatisticsService, engine *Engine, log *logger.Logger) *DashboardAssembler {
	return &DashboardAssembler{stats: stats, engine: engine, log: log}
}

// GetDashboard arma el payload completo. El compuesto también se cachea bajo
// su propia categoría (TTL corto), de modo que ráfagas de recargas del
// navegador no repitan el abanico de consultas.
func (a *DashboardAssembler) GetDashboard(ctx context.Context, scope Scope) (dto.DashboardDTO, error) {
	key := Key("dashboard", append([]string{scopeAll(scope.WarehouseID)}, scope.userPart()...)...)

	var out dto.DashboardDTO
	err := a.engine.Fetch(ctx, key, CategoryDashboard, &out, func(ctx context.Context) (any, error) {
		return a.assemble(ctx, scope), nil
	})
	return out, err
}

// assemble lanza todas las secciones en paralelo (abanico con WaitGroup) y
// aplica el default en cero a la que falle.
func (a *DashboardAssembler) assemble(ctx context.Context, scope Scope) dto.DashboardDTO {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekStart := today.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	payload := dto.DashboardDTO{GeneratedAt: now.Format(time.RFC3339)}

	var (
		wg sync.WaitGroup
		mu sync.Mutex // protege payload.Degraded
	)
	degrade := func(section string, err error) {
		mu.Lock()
		payload.Degraded = append(payload.Degraded, section)
		mu.Unlock()
		a.log.Warn().Err(err).Str("section", section).Msg("sección del dashboard degradada a cero")
	}
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	scopeAt := func(d time.Time) Scope {
		sc := scope
		sc.Date = d
		return sc
	}
	scopeRange := func(from, to time.Time) Scope {
		sc := scope
		sc.From, sc.To = from, to
		return sc
	}

	run(func() {
		v, err := a.stats.DailyStats(ctx, scopeAt(today))
		if err != nil {
			degrade("today_outbound", err)
			v = dailyZero(today)
		}
		payload.TodayOutbound = v
	})
	run(func() {
		v, err := a.todayInbound(ctx, scope, today)
		if err != nil {
			degrade("today_inbound", err)
			v = dailyZero(today)
		}
		payload.TodayInbound = v
	})
	run(func() {
		v, err := a.stats.DailyStats(ctx, scopeAt(yesterday))
		if err != nil {
			degrade("yesterday_outbound", err)
			v = dailyZero(yesterday)
		}
		payload.YesterdayOutbound = v
	})
	run(func() {
		v, err := a.stats.PeriodStats(ctx, scopeRange(weekStart, today))
		if err != nil {
			degrade("week_outbound", err)
			v = periodZero(weekStart, today)
		}
		payload.WeekOutbound = v
	})
	run(func() {
		v, err := a.stats.PeriodStats(ctx, scopeRange(monthStart, today))
		if err != nil {
			degrade("month_outbound", err)
			v = periodZero(monthStart, today)
		}
		payload.MonthOutbound = v
	})
	run(func() {
		v, err := a.stats.WarehouseSummary(ctx, scopeAt(today))
		if err != nil {
			degrade("warehouse_summary", err)
			v = dto.WarehouseSummaryDTO{Date: today.Format(dayLayout)}
		}
		payload.WarehouseSummary = v
	})
	run(func() {
		v, err := a.stats.InventoryOverview(ctx, scope)
		if err != nil {
			degrade("inventory", err)
			v = dto.InventoryOverviewDTO{WarehouseID: scope.WarehouseID}
		}
		payload.Inventory = v
	})
	run(func() {
		v, err := a.stats.TransitOverview(ctx, scopeAt(today))
		if err != nil {
			degrade("transit", err)
			v = []dto.RouteStatsDTO{}
		}
		payload.Transit = v
	})
	run(func() {
		v, err := a.stats.CustomerOverview(ctx, scopeRange(monthStart, today))
		if err != nil {
			degrade("customers", err)
			v = []dto.CustomerStatsDTO{}
		}
		payload.Customers = v
	})
	run(func() {
		v, err := a.stats.TopCustomers(ctx, scopeRange(monthStart, today))
		if err != nil {
			degrade("top_customers", err)
			v = []dto.CustomerStatsDTO{}
		}
		payload.TopCustomers = v
	})
	run(func() {
		v, err := a.stats.TopRoutes(ctx, scopeRange(monthStart, today))
		if err != nil {
			degrade("top_routes", err)
			v = []dto.RouteStatsDTO{}
		}
		payload.TopRoutes = v
	})
	run(func() {
		v, err := a.stats.BusyWarehouses(ctx, scopeAt(today))
		if err != nil {
			degrade("busy_warehouses", err)
			v = []dto.WarehouseActivityDTO{}
		}
		payload.BusyWarehouses = v
	})
	run(func() {
		v, err := a.stats.KPIIndicators(ctx, scope)
		if err != nil {
			degrade("kpi", err)
			v = dto.KPIIndicatorsDTO{}
		}
		payload.KPI = v
	})
	run(func() {
		v, err := a.stats.RealtimeStats(ctx, scope)
		if err != nil {
			degrade("realtime", err)
			v = dto.RealtimeStatsDTO{}
		}
		payload.Realtime = v
	})

	wg.Wait()
	return payload
}

// todayInbound el lado de entradas del día no tiene estadística nombrada
// propia; se resuelve con su propia llave bajo la categoría realtime.
func (a *DashboardAssembler) todayInbound(ctx context.Context, scope Scope, today time.Time) (dto.DailyStatsDTO, error) {
	wh := scope.WarehouseID
	key := Key("daily", "inbound", today.Format(dayLayout), scopeAll(wh))

	var out dto.DailyStatsDTO
	err := a.engine.Fetch(ctx, key, CategoryDailyToday, &out, func(ctx context.Context) (any, error) {
		t, err := a.stats.repo.InboundDailyTotals(ctx, today, wh)
		if err != nil {
			return nil, err
		}
		return dailyDTO(today, t), nil
	})
	return out, err
}

func dailyZero(day time.Time) dto.DailyStatsDTO {
	return dto.DailyStatsDTO{Date: day.Format(dayLayout)}
}

func periodZero(from, to time.Time) dto.PeriodStatsDTO {
	return dto.PeriodStatsDTO{
		From:   from.Format(dayLayout),
		To:     to.Format(dayLayout),
		Points: []dto.DailyStatsDTO{},
	}
}

package dto

// DashboardDTO respuesta de GET /api/dashboard.
//
// Compone ~15 estadísticas cacheadas de forma independiente. Degradación
// parcial deliberada: si una sección falla se sustituye por su forma en
// cero y el dashboard responde 200 con lo mejor disponible.
type DashboardDTO struct {
	TodayOutbound     DailyStatsDTO          `json:"today_outbound"`
	TodayInbound      DailyStatsDTO          `json:"today_inbound"`
	YesterdayOutbound DailyStatsDTO          `json:"yesterday_outbound"`
	WeekOutbound      PeriodStatsDTO         `json:"week_outbound"`
	MonthOutbound     PeriodStatsDTO         `json:"month_outbound"`
	WarehouseSummary  WarehouseSummaryDTO    `json:"warehouse_summary"`
	Inventory         InventoryOverviewDTO   `json:"inventory"`
	Transit           []RouteStatsDTO        `json:"transit"`
	Customers         []CustomerStatsDTO     `json:"customers"`
	TopCustomers      []CustomerStatsDTO     `json:"top_customers"`
	TopRoutes         []RouteStatsDTO        `json:"top_routes"`
	BusyWarehouses    []WarehouseActivityDTO `json:"busy_warehouses"`
	KPI               KPIIndicatorsDTO       `json:"kpi"`
	Realtime          RealtimeStatsDTO       `json:"realtime"`
	GeneratedAt       string                 `json:"generated_at"`

	// Secciones que llegaron degradadas (fallback en cero), para diagnóstico.
	Degraded []string `json:"degraded,omitempty"`
}

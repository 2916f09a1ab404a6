package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/outbound"
	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ApplyBatch *outbound.ApplyBatchUseCase
	Stats      *stats.StatisticsService
	Dashboard  *stats.DashboardAssembler
	Cache      *stats.Coordinator
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Salidas de inventario
	outboundGroup := api.Group("/outbound")
	outboundHandler := NewOutboundHandler(deps.ApplyBatch)
	outboundGroup.Post("/batches", outboundHandler.ApplyBatch)
	outboundGroup.Post("/backend-returns", outboundHandler.ApplyBackendReturn)
	outboundGroup.Post("/frontend-transfers", outboundHandler.ApplyFrontendTransfer)

	// Estadísticas
	statsGroup := api.Group("/stats")
	statsHandler := NewStatsHandler(deps.Stats)
	statsGroup.Get("/:name", statsHandler.GetStatistic)

	// Dashboard compuesto
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard", dashboardHandler.GetDashboard)

	// Administración del cache
	cacheHandler := NewCacheHandler(deps.Cache)
	api.Post("/cache/invalidate", cacheHandler.Invalidate)
}

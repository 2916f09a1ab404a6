package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/outbound"
	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

// CacheHandler expone operaciones administrativas sobre el cache de estadísticas.
type CacheHandler struct {
	coordinator *stats.Coordinator
}

func NewCacheHandler(coordinator *stats.Coordinator) *CacheHandler {
	return &CacheHandler{coordinator: coordinator}
}

// Invalidate purga entradas de estadísticas.
// POST /api/cache/invalidate
//
// Sin cuerpo purga todo; con warehouse_id limita el alcance de inventario
// y resumen por bodega a esa bodega.
func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	var body struct {
		WarehouseID string `json:"warehouse_id"`
		Date        string `json:"date"`
	}
	// Cuerpo vacío es válido: invalidación total.
	if len(c.Body()) == 0 {
		h.coordinator.InvalidateAll(c.Context())
		return c.JSON(fiber.Map{"status": "ok", "scope": "all"})
	}
	if err := c.BodyParser(&body); err != nil {
		h.coordinator.InvalidateAll(c.Context())
		return c.JSON(fiber.Map{"status": "ok", "scope": "all"})
	}
	event := outbound.InvalidationEvent{WarehouseID: body.WarehouseID}
	if d, err := time.ParseInLocation(dayLayout, body.Date, time.Local); err == nil {
		event.Date = d
	}
	h.coordinator.Invalidate(c.Context(), event)
	return c.JSON(fiber.Map{"status": "ok", "scope": "event"})
}

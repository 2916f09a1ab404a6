package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
	"github.com/tu-usuario/warehouse-ops/internal/domain"
)

// StatsHandler maneja las consultas de estadísticas cacheadas.
type StatsHandler struct {
	svc *stats.StatisticsService
}

// NewStatsHandler construye el handler.
func NewStatsHandler(svc *stats.StatisticsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStatistic resuelve una estadística por nombre.
// GET /api/stats/:name?warehouse_id=&date=&from=&to=&limit=
func (h *StatsHandler) GetStatistic(c *fiber.Ctx) error {
	name := c.Params("name")
	value, err := h.svc.GetStatistic(c.Context(), name, ScopeFromRequest(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_STATISTIC", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al calcular la estadística"})
		}
	}
	return c.JSON(value)
}

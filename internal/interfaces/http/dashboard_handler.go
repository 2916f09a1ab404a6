package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

// DashboardHandler maneja el endpoint del Dashboard.
type DashboardHandler struct {
	assembler *stats.DashboardAssembler
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(assembler *stats.DashboardAssembler) *DashboardHandler {
	return &DashboardHandler{assembler: assembler}
}

// GetDashboard devuelve el payload compuesto.
// GET /api/dashboard
//
// Siempre responde 200 con lo mejor disponible: las secciones que fallaron
// llegan con su forma en cero y listadas en `degraded`.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	payload, err := h.assembler.GetDashboard(c.Context(), ScopeFromRequest(c))
	if err != nil {
		// Solo falla el armado del compuesto en sí; las secciones degradan solas.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "error al armar el dashboard",
		})
	}
	return c.JSON(payload)
}

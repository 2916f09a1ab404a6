package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/stats"
)

const dayLayout = "2006-01-02"

// ScopeFromRequest arma el alcance explícito de una consulta de
// estadísticas a partir de la petición. La autenticación vive fuera de este
// núcleo: aquí solo se materializa el alcance como valor, nunca como un
// objeto de usuario improvisado.
func ScopeFromRequest(c *fiber.Ctx) stats.Scope {
	scope := stats.Scope{
		WarehouseID:  c.Query("warehouse_id"),
		UserID:       c.Get("X-User-ID"),
		IsSuperAdmin: c.Get("X-Super-Admin") == "true",
		Limit:        c.QueryInt("limit"),
	}
	if d, err := time.ParseInLocation(dayLayout, c.Query("date"), time.Local); err == nil {
		scope.Date = d
	}
	if d, err := time.ParseInLocation(dayLayout, c.Query("from"), time.Local); err == nil {
		scope.From = d
	}
	if d, err := time.ParseInLocation(dayLayout, c.Query("to"), time.Local); err == nil {
		scope.To = d
	}
	return scope
}

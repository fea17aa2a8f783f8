package route

import (
	"canvassers_backend/internals/features/attendance/service"
	"canvassers_backend/internals/features/sales/controller"

	"github.com/gofiber/fiber/v2"
)

// SalesUserRoutes: r sudah melewati AuthMiddleware. mw hanya dipasang di /sales.
func SalesUserRoutes(r fiber.Router, m *service.Manager, mw ...fiber.Handler) {
	ctl := controller.NewSalesController(m)

	g := r.Group("/sales", mw...)
	g.Post("/", ctl.Create)
	g.Get("/today", ctl.Today)
}

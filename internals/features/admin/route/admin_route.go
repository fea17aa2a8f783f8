package route

import (
	"time"

	"canvassers_backend/internals/constants"
	"canvassers_backend/internals/features/admin/controller"
	"canvassers_backend/internals/features/admin/repository"
	authMiddleware "canvassers_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminDashboardRoutes: r sudah melewati AuthMiddleware.
func AdminDashboardRoutes(r fiber.Router, db *gorm.DB, loc *time.Location) {
	ctrl := controller.NewAdminController(repository.NewAdminRepository(db), loc)

	adminOnly := authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("Dashboard"), constants.AdminOnly)

	g := r.Group("", adminOnly)
	g.Get("/check-ins", ctrl.ListCheckIns)
	g.Get("/sales", ctrl.ListSales)
	g.Get("/charts/check-ins", ctrl.CheckInChart)
	g.Get("/charts/sales", ctrl.SalesChart)
	g.Get("/export/check-ins.xlsx", ctrl.ExportCheckIns)
	g.Get("/export/sales.xlsx", ctrl.ExportSales)
}

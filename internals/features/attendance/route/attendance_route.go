package route

import (
	"canvassers_backend/internals/features/attendance/controller"
	"canvassers_backend/internals/features/attendance/service"

	"github.com/gofiber/fiber/v2"
)

// AttendanceUserRoutes: r sudah melewati AuthMiddleware. mw hanya dipasang di /attendance.
func AttendanceUserRoutes(r fiber.Router, m *service.Manager, users controller.UserLookup, mw ...fiber.Handler) {
	ctl := controller.NewAttendanceController(m, users)

	g := r.Group("/attendance", mw...)
	g.Post("/check-in", ctl.CheckIn)
	g.Post("/check-out", ctl.CheckOut)
	g.Post("/feedback", ctl.SubmitFeedback)
	g.Get("/status", ctl.Status)
}

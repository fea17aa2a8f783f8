package details

import (
	attendanceRoute "canvassers_backend/internals/features/attendance/route"
	attendanceService "canvassers_backend/internals/features/attendance/service"
	branchRoute "canvassers_backend/internals/features/branches/route"
	salesRoute "canvassers_backend/internals/features/sales/route"
	authRepo "canvassers_backend/internals/features/users/auth/repository"
	rateLimiter "canvassers_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserRoutes: endpoint canvasser. api sudah melewati AuthMiddleware.
func UserRoutes(api fiber.Router, db *gorm.DB, m *attendanceService.Manager) {
	branchRoute.BranchUserRoutes(api, db)

	// satu limiter untuk /attendance dan /sales; Group("") akan ikut membatasi /api/admin
	field := rateLimiter.AttendanceRateLimiter()
	attendanceRoute.AttendanceUserRoutes(api, m, authRepo.NewAuthRepository(db), field)
	salesRoute.SalesUserRoutes(api, m, field)
}

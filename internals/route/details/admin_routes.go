package details

import (
	"time"

	adminRoute "canvassers_backend/internals/features/admin/route"
	branchRoute "canvassers_backend/internals/features/branches/route"
	userRoute "canvassers_backend/internals/features/users/user/route"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRoutes: /api/admin/...; role admin dicek di tiap feature.
func AdminRoutes(admin fiber.Router, db *gorm.DB, loc *time.Location, onUserChange func(uuid.UUID)) {
	userRoute.UserAdminRoutes(admin, db, onUserChange)
	branchRoute.BranchAdminRoutes(admin, db)
	adminRoute.AdminDashboardRoutes(admin, db, loc)
}

package route

import (
	"canvassers_backend/internals/constants"
	"canvassers_backend/internals/features/branches/controller"
	"canvassers_backend/internals/features/branches/repository"
	authMiddleware "canvassers_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BranchUserRoutes: r sudah melewati AuthMiddleware.
func BranchUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBranchController(repository.NewBranchRepository(db))
	r.Get("/branches", ctl.List)
}

// BranchAdminRoutes: r sudah melewati AuthMiddleware; role dicek per group.
func BranchAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBranchController(repository.NewBranchRepository(db))
	g := r.Group("/branches",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("Branch Management"), constants.AdminOnly),
	)
	g.Post("/", ctl.Create)
	g.Post("/import", ctl.Import)
}

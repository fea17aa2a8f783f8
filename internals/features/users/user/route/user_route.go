package route

import (
	"canvassers_backend/internals/constants"
	"canvassers_backend/internals/features/users/user/controller"
	"canvassers_backend/internals/features/users/user/repository"
	authMiddleware "canvassers_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAdminRoutes: r sudah melewati AuthMiddleware; role dicek per group.
func UserAdminRoutes(r fiber.Router, db *gorm.DB, onChange func(uuid.UUID)) {
	userCtrl := controller.NewUserController(repository.NewUserRepository(db), onChange)

	users := r.Group("/users",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("User Management"), constants.AdminOnly),
	)
	users.Get("/", userCtrl.GetUsers)
	users.Put("/:id", userCtrl.UpdateUser)
}

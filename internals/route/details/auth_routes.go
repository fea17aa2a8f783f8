package details

import (
	authRepo "canvassers_backend/internals/features/users/auth/repository"
	authRoute "canvassers_backend/internals/features/users/auth/route"
	authService "canvassers_backend/internals/features/users/auth/service"
	authMiddleware "canvassers_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthRoutes memasang /api/auth dan mengembalikan AuthMiddleware untuk group lain.
func AuthRoutes(app *fiber.App, db *gorm.DB, secret string, onLogout func(uuid.UUID)) fiber.Handler {
	users := authRepo.NewAuthRepository(db)
	blacklist := authRepo.NewBlacklistRepository(db, secret)

	svc := authService.NewAuthService(users, blacklist, secret)
	svc.OnLogout = onLogout

	authMw := authMiddleware.AuthMiddleware(authMiddleware.AuthOpts{
		Secret:    secret,
		Blacklist: blacklist,
		Users:     users,
	})

	authRoute.AuthRoutes(app, svc, authMw)
	return authMw
}

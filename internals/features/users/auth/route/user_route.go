package route

import (
	controller "canvassers_backend/internals/features/users/auth/controller"
	"canvassers_backend/internals/features/users/auth/service"
	rateLimiter "canvassers_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes: authMw dipasang hanya di endpoint yang butuh token.
func AuthRoutes(app fiber.Router, svc *service.AuthService, authMw fiber.Handler) {
	authController := controller.NewAuthController(svc)

	baseAuth := app.Group("/api/auth")

	// public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)

	// protected
	baseAuth.Post("/logout", authMw, authController.Logout)
	baseAuth.Get("/me", authMw, authController.Me)
}

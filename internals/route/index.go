package routes

import (
	"log"
	"time"

	"canvassers_backend/internals/configs"
	attendanceService "canvassers_backend/internals/features/attendance/service"
	rateLimiter "canvassers_backend/internals/middlewares"
	routeDetails "canvassers_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

type Deps struct {
	Secret   string
	Settings configs.AppSettings
	Manager  *attendanceService.Manager
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// Urutan penting: /api/auth harus terdaftar sebelum group /api yang memakai AuthMiddleware,
	// supaya login/register tidak ikut diminta token.
	log.Println("[INFO] Setting up AuthRoutes...")
	authMw := routeDetails.AuthRoutes(app, db, deps.Secret, deps.Manager.Forget)

	log.Println("[INFO] Setting up PRIVATE group...")
	api := app.Group("/api", rateLimiter.GlobalRateLimiter(), authMw)

	log.Println("[INFO] Mounting canvasser routes...")
	routeDetails.UserRoutes(api, db, deps.Manager)

	log.Println("[INFO] Mounting admin routes...")
	routeDetails.AdminRoutes(api.Group("/admin"), db, deps.Settings.Timezone, deps.Manager.Forget)
}

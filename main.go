package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"canvassers_backend/internals/configs"
	database "canvassers_backend/internals/databases"
	attendanceRepo "canvassers_backend/internals/features/attendance/repository"
	attendanceService "canvassers_backend/internals/features/attendance/service"
	branchRepo "canvassers_backend/internals/features/branches/repository"
	"canvassers_backend/internals/features/notify"
	authRepo "canvassers_backend/internals/features/users/auth/repository"
	scheduler "canvassers_backend/internals/features/users/auth/scheduler"
	helper "canvassers_backend/internals/helpers"
	middlewares "canvassers_backend/internals/middlewares"
	routes "canvassers_backend/internals/route"
	"canvassers_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	settings := configs.Settings

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.FiberErrorHandler,
		DisableStartupMessage:   true,
		BodyLimit:               8 * 1024 * 1024, // upload daftar cabang
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, settings.Timezone)

	// 🔌 DB connect + migrate + pool + warm-up
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	database.TunePool()
	database.WarmUpQueries()
	seeds.RunAllSeeds(database.DB)

	// 🧭 sesi attendance per user
	manager := attendanceService.NewManager(
		attendanceRepo.NewAttendanceStore(database.DB),
		branchRepo.NewBranchRepository(database.DB),
		notify.FromSettings(settings.TelegramBotToken, settings.TelegramAdminChatID),
		attendanceService.PolicyFromSettings(settings),
	)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	ttlDays, _ := strconv.Atoi(configs.GetEnv("TOKEN_BLACKLIST_TTL_DAYS", "7"))
	scheduler.StartBlacklistCleanupScheduler(bgCtx,
		authRepo.NewBlacklistRepository(database.DB, configs.JWTSecret), ttlDays)

	routes.SetupRoutes(app, database.DB, routes.Deps{
		Secret:   configs.JWTSecret,
		Settings: settings,
		Manager:  manager,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP dulu, lalu sesi, scheduler, pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	manager.Close()
	stopBackground()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

package middlewares

import (
	"context"
	"log"
	"time"

	"canvassers_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestTimeout = 15 * time.Second

// RequestContext: Request-ID + timeout guard pada UserContext.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("requestid", id)

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()
		c.SetUserContext(ctx)

		start := time.Now()
		err := c.Next()
		if dur := time.Since(start); dur > 2*time.Second {
			log.Printf("[SLOW REQ] id=%s %s %s dur=%s", id, c.Method(), c.OriginalURL(), dur)
		}
		return err
	}
}

func SetupMiddlewares(app *fiber.App, loc *time.Location) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware(loc))
}

// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, rawToken string) (bool, error)
}

// UserStatusChecker mengembalikan status aktif dan role terkini dari DB;
// gorm.ErrRecordNotFound kalau user sudah tidak ada.
type UserStatusChecker interface {
	UserStatus(ctx context.Context, id uuid.UUID) (active bool, role string, err error)
}

type AuthOpts struct {
	Secret    string
	Blacklist BlacklistChecker
	Users     UserStatusChecker
	// toleransi jam antar server
	Skew time.Duration
}

func AuthMiddleware(opts AuthOpts) fiber.Handler {
	if opts.Skew == 0 {
		opts.Skew = 30 * time.Second
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil Authorization (atau cookie)
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 2) Secret wajib ada
		if opts.Secret == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		// 3) Cek blacklist (token yang sudah logout)
		if opts.Blacklist != nil {
			bl, err := opts.Blacklist.IsBlacklisted(c.UserContext(), tokenString)
			if err != nil {
				log.Println("[ERROR] blacklist check:", err)
				return fiber.NewError(fiber.StatusServiceUnavailable, "Cannot verify session, please retry")
			}
			if bl {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			}
		}

		// 4) Parse & verifikasi signature (exp dicek manual dengan skew)
		claims := jwt.MapClaims{}
		parser := jwt.Parser{
			SkipClaimsValidation: true,
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(opts.Secret), nil
		}); err != nil {
			log.Println("[WARN] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 5) Validasi exp
		exp, err := validateTokenExpiry(claims, time.Now(), opts.Skew)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 6) Ambil user_id & validasi user aktif
		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
		}
		role := ""
		if opts.Users != nil {
			active, dbRole, err := opts.Users.UserStatus(c.UserContext(), userID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
			case err != nil:
				log.Println("[ERROR] ensureUserActive:", err)
				return fiber.NewError(fiber.StatusServiceUnavailable, "Cannot verify user, please retry")
			case !active:
				return fiber.NewError(fiber.StatusForbidden, "User is not active, Please contact admin")
			}
			role = dbRole
		}

		// 7) Simpan info klaim ke context
		c.Locals(helper.LocUserID, userID.String())
		c.Locals(helper.LocToken, tokenString)
		c.Locals(helper.LocExpiry, exp)
		storeBasicClaimsToLocals(c, claims)
		// role dari DB menimpa klaim token, perubahan role oleh admin langsung berlaku
		if role != "" {
			c.Locals(helper.LocRole, role)
		}

		return c.Next()
	}
}

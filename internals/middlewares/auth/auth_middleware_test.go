package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testSecret = "middleware-secret"

type fakeBlacklist map[string]bool

func (f fakeBlacklist) IsBlacklisted(_ context.Context, raw string) (bool, error) {
	return f[raw], nil
}

type fakeUser struct {
	active bool
	role   string
}

type fakeUsers map[uuid.UUID]fakeUser

func (f fakeUsers) UserStatus(_ context.Context, id uuid.UUID) (bool, string, error) {
	u, ok := f[id]
	if !ok {
		return false, "", gorm.ErrRecordNotFound
	}
	return u.active, u.role, nil
}

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newApp(bl fakeBlacklist, users fakeUsers) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	api := app.Group("/api", AuthMiddleware(AuthOpts{Secret: testSecret, Blacklist: bl, Users: users}))
	api.Get("/me", func(c *fiber.Ctx) error {
		id, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String() + "|" + helper.GetRoleFromToken(c))
	})
	api.Get("/admin", OnlyRoles("admins only", "admin"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	active := uuid.New()
	inactive := uuid.New()
	users := fakeUsers{active: {true, "user"}, inactive: {false, "user"}}

	exp := time.Now().Add(time.Hour).Unix()
	good := sign(t, jwt.MapClaims{"id": active.String(), "role": "user", "exp": exp}, testSecret)
	revoked := sign(t, jwt.MapClaims{"id": active.String(), "role": "user", "exp": exp + 1}, testSecret)
	bl := fakeBlacklist{revoked: true}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"bad scheme", "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + sign(t, jwt.MapClaims{"id": active.String(), "exp": exp}, "other"), fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"id": active.String(), "exp": time.Now().Add(-time.Hour).Unix()}, testSecret), fiber.StatusUnauthorized},
		{"no exp", "Bearer " + sign(t, jwt.MapClaims{"id": active.String()}, testSecret), fiber.StatusUnauthorized},
		{"blacklisted", "Bearer " + revoked, fiber.StatusUnauthorized},
		{"unknown user", "Bearer " + sign(t, jwt.MapClaims{"id": uuid.NewString(), "exp": exp}, testSecret), fiber.StatusUnauthorized},
		{"inactive user", "Bearer " + sign(t, jwt.MapClaims{"id": inactive.String(), "exp": exp}, testSecret), fiber.StatusForbidden},
		{"ok", "Bearer " + good, fiber.StatusOK},
		{"ok lowercase scheme", "bearer  " + good, fiber.StatusOK},
	}

	app := newApp(bl, users)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				body, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				if !strings.HasPrefix(string(body), active.String()+"|user") {
					t.Fatalf("locals not populated: %s", body)
				}
			}
		})
	}
}

func TestOnlyRoles(t *testing.T) {
	user := uuid.New()
	admin := uuid.New()
	demoted := uuid.New()
	promoted := uuid.New()
	app := newApp(fakeBlacklist{}, fakeUsers{
		user:     {true, "user"},
		admin:    {true, "admin"},
		demoted:  {true, "user"},
		promoted: {true, "admin"},
	})
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		id     uuid.UUID
		role   string
		status int
	}{
		{user, "user", fiber.StatusForbidden},
		{admin, "admin", fiber.StatusOK},
		// token masih membawa role lama; role di DB yang dipakai
		{demoted, "admin", fiber.StatusForbidden},
		{promoted, "user", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"id": tc.id.String(), "role": tc.role, "exp": exp}, testSecret))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("claim role %s: status = %d, want %d", tc.role, resp.StatusCode, tc.status)
		}
	}
}

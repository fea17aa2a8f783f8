package controller

import (
	"errors"
	"log"

	"canvassers_backend/internals/features/users/auth/dto"
	"canvassers_backend/internals/features/users/auth/service"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	Svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	if _, err := ac.Svc.Register(c.UserContext(), req); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[ERROR] register: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Registration failed, please retry")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful, please wait for admin activation",
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	res, err := ac.Svc.Login(c.UserContext(), req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInactiveUser):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "USER_INACTIVE", err.Error())
	case err != nil:
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Login failed, please retry")
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	raw, exp := helper.GetTokenFromLocals(c)
	if err := ac.Svc.Logout(c.UserContext(), userID, raw, exp); err != nil {
		log.Printf("[ERROR] logout: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Logout failed, please retry")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to load user")
	}
	return c.JSON(fiber.Map{"user": user})
}

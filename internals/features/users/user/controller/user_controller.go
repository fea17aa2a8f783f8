package controller

import (
	"context"
	"errors"
	"log"

	"canvassers_backend/internals/features/users/user/dto"
	"canvassers_backend/internals/features/users/user/model"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore interface {
	ListUsers(ctx context.Context, q string, p helper.Paging) ([]model.UserModel, int64, error)
	UpdateUser(ctx context.Context, id uuid.UUID, changes map[string]any) (*model.UserModel, error)
}

type UserController struct {
	Store UserStore
	// OnChange dipanggil setelah user diubah admin (mis. reset sesi attendance).
	OnChange func(userID uuid.UUID)
}

func NewUserController(store UserStore, onChange func(uuid.UUID)) *UserController {
	return &UserController{Store: store, OnChange: onChange}
}

// GET /api/admin/users?q=&page=&per_page=
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	users, total, err := uc.Store.ListUsers(c.UserContext(), c.Query("q"), p)
	if err != nil {
		log.Println("[ERROR] Failed to fetch users:", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to retrieve users")
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(users))
	return helper.JsonList(c, "Users fetched successfully", users, &pg)
}

// PUT /api/admin/users/:id
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if req.Empty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	user, err := uc.Store.UpdateUser(c.UserContext(), id, req.Changes())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		log.Println("[ERROR] Failed to update user:", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to update user")
	}
	if uc.OnChange != nil {
		uc.OnChange(id)
	}

	log.Printf("[INFO] user %s updated by admin: %v", id, req.Changes())
	return helper.JsonUpdated(c, "User updated", user)
}

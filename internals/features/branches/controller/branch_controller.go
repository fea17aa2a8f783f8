package controller

import (
	"context"
	"errors"
	"log"

	"canvassers_backend/internals/features/branches/dto"
	"canvassers_backend/internals/features/branches/model"
	"canvassers_backend/internals/features/branches/service"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// BranchStore dipenuhi oleh repository.BranchRepository.
type BranchStore interface {
	ListBranches(ctx context.Context) ([]model.BranchModel, error)
	Create(ctx context.Context, b *model.BranchModel) error
	UpsertByAddress(ctx context.Context, rows []model.BranchModel) error
}

type BranchController struct {
	Store BranchStore
}

func NewBranchController(store BranchStore) *BranchController {
	return &BranchController{Store: store}
}

// GET /api/branches
func (bc *BranchController) List(c *fiber.Ctx) error {
	rows, err := bc.Store.ListBranches(c.UserContext())
	if err != nil {
		log.Printf("[ERROR] list branches: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to load branches, please retry")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// POST /api/admin/branches
func (bc *BranchController) Create(c *fiber.Ctx) error {
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	b := req.ToModel()
	if err := bc.Store.Create(c.UserContext(), b); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return helper.JsonError(c, fiber.StatusConflict, "Branch address already exists")
		}
		log.Printf("[ERROR] create branch: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to create branch")
	}
	return helper.JsonCreated(c, "Branch created", b)
}

// POST /api/admin/branches/import (multipart, field "file")
func (bc *BranchController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot open uploaded file")
	}
	defer f.Close()

	rows, err := service.ReadSheetRows(f, fh.Filename)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	branches, skipped, err := service.ParseBranchRows(rows)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := bc.Store.UpsertByAddress(c.UserContext(), branches); err != nil {
		log.Printf("[ERROR] import branches: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to import branches")
	}
	log.Printf("[INFO] branch import %s: %d upserted, %d skipped", fh.Filename, len(branches), len(skipped))

	return helper.JsonOK(c, "Branches imported", dto.ImportBranchesResponse{
		Imported: len(branches),
		Skipped:  skipped,
	})
}

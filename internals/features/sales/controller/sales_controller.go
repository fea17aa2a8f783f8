package controller

import (
	attendanceController "canvassers_backend/internals/features/attendance/controller"
	"canvassers_backend/internals/features/attendance/service"
	"canvassers_backend/internals/features/sales/dto"
	"canvassers_backend/internals/features/sales/model"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// SalesController mencatat penjualan lewat sesi attendance user.
type SalesController struct {
	Manager *service.Manager
}

func NewSalesController(m *service.Manager) *SalesController {
	return &SalesController{Manager: m}
}

// POST /api/sales
func (sc *SalesController) Create(c *fiber.Ctx) error {
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var sale *model.SaleModel
	err = sc.Manager.With(userID, func(s *service.Session) (err error) {
		sale, err = s.RecordSale(c.UserContext(), req)
		return err
	})
	if err != nil {
		return attendanceController.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Sale recorded", sale)
}

// GET /api/sales/today
func (sc *SalesController) Today(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var sales []model.SaleModel
	err = sc.Manager.With(userID, func(s *service.Session) (err error) {
		sales, err = s.DailySales(c.UserContext())
		return err
	})
	if err != nil {
		return attendanceController.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ok",
		"data":    sales,
		"count":   len(sales),
	})
}

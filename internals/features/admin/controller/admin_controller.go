package controller

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"canvassers_backend/internals/features/admin/dto"
	"canvassers_backend/internals/features/admin/repository"
	"canvassers_backend/internals/features/admin/service"
	attendanceModel "canvassers_backend/internals/features/attendance/model"
	helper "canvassers_backend/internals/helpers"
	"canvassers_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultChartDays = 14
	maxChartDays     = 90
)

type AdminStore interface {
	ListCheckIns(ctx context.Context, w repository.Window) ([]attendanceModel.CheckInModel, error)
	ListSales(ctx context.Context, w repository.Window) ([]dto.SaleRow, error)
}

type AdminController struct {
	Store AdminStore
	Loc   *time.Location
	Now   func() time.Time
}

func NewAdminController(store AdminStore, loc *time.Location) *AdminController {
	return &AdminController{Store: store, Loc: loc, Now: time.Now}
}

// dayWindow: ?date= kosong = tanpa batas.
func (ac *AdminController) dayWindow(date string) (repository.Window, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return repository.Window{}, nil
	}
	start, err := dbtime.ParseDate(date, ac.Loc)
	if err != nil {
		return repository.Window{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	end := start.AddDate(0, 0, 1)
	return repository.Window{From: &start, To: &end}, nil
}

func (ac *AdminController) chartWindow(c *fiber.Ctx) repository.Window {
	days, _ := strconv.Atoi(strings.TrimSpace(c.Query("days")))
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		days = maxChartDays
	}
	from := dbtime.StartOfDay(ac.Now(), ac.Loc).AddDate(0, 0, -(days - 1))
	return repository.Window{From: &from}
}

func (ac *AdminController) checkIns(c *fiber.Ctx) ([]attendanceModel.CheckInModel, error) {
	var f dto.CheckInFilter
	if err := c.QueryParser(&f); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	f.Normalize()
	w, err := ac.dayWindow(f.Date)
	if err != nil {
		return nil, err
	}
	rows, err := ac.Store.ListCheckIns(c.UserContext(), w)
	if err != nil {
		log.Println("[ERROR] admin list check-ins:", err)
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Failed to retrieve check-ins")
	}
	return service.FilterCheckIns(rows, f, ac.Loc), nil
}

func (ac *AdminController) sales(c *fiber.Ctx) ([]dto.SaleRow, error) {
	var f dto.SaleFilter
	if err := c.QueryParser(&f); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user_id")
		}
		f.UserID = &id
	}
	f.Normalize()
	w, err := ac.dayWindow(f.Date)
	if err != nil {
		return nil, err
	}
	rows, err := ac.Store.ListSales(c.UserContext(), w)
	if err != nil {
		log.Println("[ERROR] admin list sales:", err)
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Failed to retrieve sales")
	}
	return service.FilterSales(rows, f, ac.Loc), nil
}

// GET /api/admin/check-ins?date=&branch=&name=&email_suffix=&order=&page=&per_page=
func (ac *AdminController) ListCheckIns(c *fiber.Ctx) error {
	rows, err := ac.checkIns(c)
	if err != nil {
		return err
	}
	page, pg := helper.PaginateSlice(rows, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "Check-ins fetched successfully", page, &pg)
}

// GET /api/admin/sales?date=&name=&user_id=&page=&per_page=
func (ac *AdminController) ListSales(c *fiber.Ctx) error {
	rows, err := ac.sales(c)
	if err != nil {
		return err
	}
	page, pg := helper.PaginateSlice(rows, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "Sales fetched successfully", page, &pg)
}

// GET /api/admin/charts/check-ins?days=
func (ac *AdminController) CheckInChart(c *fiber.Ctx) error {
	rows, err := ac.Store.ListCheckIns(c.UserContext(), ac.chartWindow(c))
	if err != nil {
		log.Println("[ERROR] admin check-in chart:", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to retrieve check-ins")
	}
	return helper.JsonOK(c, "Check-in chart", service.CountCheckInsPerDay(rows, ac.Loc))
}

// GET /api/admin/charts/sales?days=
func (ac *AdminController) SalesChart(c *fiber.Ctx) error {
	rows, err := ac.Store.ListSales(c.UserContext(), ac.chartWindow(c))
	if err != nil {
		log.Println("[ERROR] admin sales chart:", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Failed to retrieve sales")
	}
	return helper.JsonOK(c, "Sales chart", service.CountSalesPerUser(rows))
}

func (ac *AdminController) sendXLSX(c *fiber.Ctx, name string, write func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		log.Println("[ERROR] xlsx export:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build workbook")
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, dbtime.DateKey(ac.Now(), ac.Loc))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// GET /api/admin/export/check-ins.xlsx (filter sama dengan daftar, tanpa paging)
func (ac *AdminController) ExportCheckIns(c *fiber.Ctx) error {
	rows, err := ac.checkIns(c)
	if err != nil {
		return err
	}
	return ac.sendXLSX(c, "check-ins", func(b *bytes.Buffer) error {
		return service.WriteCheckInsXLSX(b, rows, ac.Loc)
	})
}

// GET /api/admin/export/sales.xlsx
func (ac *AdminController) ExportSales(c *fiber.Ctx) error {
	rows, err := ac.sales(c)
	if err != nil {
		return err
	}
	return ac.sendXLSX(c, "sales", func(b *bytes.Buffer) error {
		return service.WriteSalesXLSX(b, rows, ac.Loc)
	})
}

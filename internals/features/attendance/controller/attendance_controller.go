package controller

import (
	"context"
	"errors"

	"canvassers_backend/internals/features/attendance/dto"
	"canvassers_backend/internals/features/attendance/model"
	"canvassers_backend/internals/features/attendance/service"
	"canvassers_backend/internals/features/geo"
	userModel "canvassers_backend/internals/features/users/user/model"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLookup dipenuhi oleh users/auth repository.
type UserLookup interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
}

type AttendanceController struct {
	Manager *service.Manager
	Users   UserLookup
}

func NewAttendanceController(m *service.Manager, users UserLookup) *AttendanceController {
	return &AttendanceController{Manager: m, Users: users}
}

// body kosong tetap valid; hasilnya lokasi tidak tersedia
func parseLocation(c *fiber.Ctx) (geo.Locator, error) {
	var req dto.LocationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	return geo.StaticLocator{Latitude: req.Latitude, Longitude: req.Longitude}, nil
}

// POST /api/attendance/check-in
func (ac *AttendanceController) CheckIn(c *fiber.Ctx) error {
	locator, err := parseLocation(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	user, err := ac.Users.FindUserByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
		}
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Could not load user, please retry")
	}

	info := service.UserInfo{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		SlotLocation: user.SlotLocation,
	}
	var ev *model.CheckInModel
	err = ac.Manager.With(userID, func(s *service.Session) (err error) {
		ev, err = s.CheckIn(c.UserContext(), info, locator)
		return err
	})
	if err != nil {
		return RespondError(c, err)
	}

	msg := "Checked in"
	if !ev.Within400Meters {
		msg = "Checked in (outside 400 m of your branch)"
	}
	return helper.JsonCreated(c, msg, ev)
}

// POST /api/attendance/check-out
func (ac *AttendanceController) CheckOut(c *fiber.Ctx) error {
	locator, err := parseLocation(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var ev *model.CheckInModel
	err = ac.Manager.With(userID, func(s *service.Session) (err error) {
		ev, err = s.CheckOut(c.UserContext(), locator)
		return err
	})
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Checked out", ev)
}

// POST /api/attendance/feedback
func (ac *AttendanceController) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var fb *model.FeedbackModel
	err = ac.Manager.With(userID, func(s *service.Session) (err error) {
		fb, err = s.SubmitFeedback(c.UserContext(), req)
		return err
	})
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonCreated(c, "Feedback submitted", fb)
}

// GET /api/attendance/status
func (ac *AttendanceController) Status(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var snap service.Snapshot
	err = ac.Manager.With(userID, func(s *service.Session) (err error) {
		snap, err = s.Status(c.UserContext())
		return err
	})
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", snap)
}

package controller

import (
	"context"
	"errors"
	"log"

	"canvassers_backend/internals/features/attendance/service"
	branchService "canvassers_backend/internals/features/branches/service"
	"canvassers_backend/internals/features/geo"
	helper "canvassers_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// RespondError memetakan error domain attendance ke envelope JSON.
func RespondError(c *fiber.Ctx, err error) error {
	var (
		ve *service.ValidationError
		se *service.StoreError
	)
	switch {
	case errors.As(err, &ve):
		return helper.JsonValidationError(c, ve.Fields)
	case errors.Is(err, geo.ErrLocationUnavailable):
		return helper.JsonErrorCode(c, fiber.StatusUnprocessableEntity, "LOCATION_UNAVAILABLE", geo.ErrLocationUnavailable.Error())
	case errors.Is(err, branchService.ErrBranchNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "BRANCH_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_CHECKED_IN", err.Error())
	case errors.Is(err, service.ErrFeedbackRequired):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "FEEDBACK_REQUIRED", err.Error())
	case errors.Is(err, service.ErrNotCheckedIn):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "NOT_CHECKED_IN", err.Error())
	case errors.Is(err, service.ErrOutsideGeofence):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "OUTSIDE_GEOFENCE", err.Error())
	case errors.As(err, &se):
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), se.Err)
		return helper.JsonErrorCode(c, fiber.StatusServiceUnavailable, "STORE_ERROR", "Could not "+se.Op+", please retry")
	case errors.Is(err, service.ErrSessionClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, service.ErrSessionClosed.Error())
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

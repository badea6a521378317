package utils

import (
	"bus_portal/constants"
	"bus_portal/domain"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandleError writes the JSON error envelope for a domain error. Anything that
// is not a known domain error is logged and reported as 500.
func HandleError(c *fiber.Ctx, err error) error {
	var (
		unauthorized domain.UnauthorizedError
		notFound     domain.NotFoundError
		validation   domain.ValidationError
		conflict     domain.ConflictError
		invalidState domain.InvalidStateError
		internal     domain.InternalError
	)
	switch {
	case errors.As(err, &unauthorized):
		return ErrorResponse(c, fiber.StatusUnauthorized, unauthorized.Error(), nil)
	case errors.As(err, &notFound):
		return ErrorResponse(c, fiber.StatusNotFound, notFound.Error(), nil)
	case errors.As(err, &validation):
		return ErrorResponse(c, fiber.StatusBadRequest, validation.Error(), nil)
	case errors.As(err, &conflict):
		return ErrorResponse(c, fiber.StatusConflict, conflict.Error(), nil)
	case errors.As(err, &invalidState):
		return ErrorResponse(c, fiber.StatusConflict, invalidState.Error(), nil)
	case errors.As(err, &internal):
		log.Printf("[%s %s] %s: %v", c.Method(), c.Path(), internal.Msg, internal.Err)
		return ErrorResponse(c, fiber.StatusInternalServerError, internal.Error(), nil)
	default:
		log.Printf("[%s %s] unhandled error: %v", c.Method(), c.Path(), err)
		return ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
	}
}

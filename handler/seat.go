package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/utils"

	"github.com/gofiber/fiber/v2"
)

func GetSeatsByTrip(c *fiber.Ctx) error {
	tripId, ok := c.Locals("tripId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	seatMap, err := helper.LoadSeatMap(database.DB, tripId)
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "trip", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seatMap)
}

package validate

import (
	"bus_portal/constants"
	"bus_portal/domain"
	"bus_portal/model"
	"bus_portal/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateTrip() fiber.Handler {
	return body[model.CreateTripInput]("createTripInput")
}

func CreateBus() fiber.Handler {
	return body[model.CreateBusInput]("createBusInput")
}

func EditBusStatus() fiber.Handler {
	return body[model.EditBusStatusInput]("editBusStatusInput")
}

func CreateRoute() fiber.Handler {
	return body[model.CreateRouteInput]("createRouteInput")
}

func EditRoute() fiber.Handler {
	return body[model.EditRouteInput]("editRouteInput")
}

func CreateMachine() fiber.Handler {
	return body[model.CreateMachineInput]("createMachineInput")
}

func EditMachine() fiber.Handler {
	return body[model.EditMachineInput]("editMachineInput")
}

// TripIdQuery requires a positive ?tripId= and stores it as "tripId".
func TripIdQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("tripId")
		if raw == "" {
			return utils.HandleError(c, domain.ValidationError{Field: "tripId", Msg: constants.TRIP_ID_REQUIRED})
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return utils.HandleError(c, domain.ValidationError{Field: "tripId", Msg: "must be a positive integer", Err: err})
		}
		c.Locals("tripId", uint(id))
		return c.Next()
	}
}

// SearchTrips checks the optional ?date=YYYY-MM-DD filter.
func SearchTrips() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.SearchTripInput
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.Date != "" {
			if _, err := time.Parse("2006-01-02", input.Date); err != nil {
				return utils.HandleError(c, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err})
			}
		}
		c.Locals("searchTripInput", input)
		return c.Next()
	}
}

func FilterTrips() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.FilterTripInput
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.Status != "" && !utils.IsValidValueOfConstant(input.Status, []string{
			constants.TRIP_SCHEDULED, constants.TRIP_DEPARTED, constants.TRIP_COMPLETED, constants.TRIP_CANCELLED,
		}) {
			return utils.HandleError(c, domain.ValidationError{Field: "status", Msg: "unknown trip status"})
		}
		c.Locals("filterTripInput", input)
		return c.Next()
	}
}

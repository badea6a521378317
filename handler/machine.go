package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetMachines(c *fiber.Ctx) error {
	var machines []model.Machine
	if err := database.DB.Preload("Route").Order("code asc").Find(&machines).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, machines)
}

func CreateMachine(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("createMachineInput").(model.CreateMachineInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var route model.Route
	if err := db.First(&route, input.RouteId).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "route", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	machine := new(model.Machine)
	copier.Copy(machine, &input)
	machine.Status = constants.MACHINE_OFFLINE

	if err := db.Omit("Route").Create(machine).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return utils.HandleError(c, domain.ConflictError{Resource: "machine", Msg: "machine code already in use", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}
	machine.Route = route
	return utils.SuccessResponse(c, fiber.StatusCreated, machine)
}

func EditMachine(c *fiber.Ctx) error {
	db := database.DB
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}
	input, ok := c.Locals("editMachineInput").(model.EditMachineInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var machine model.Machine
	if err := db.First(&machine, id).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "machine", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	if input.RouteId != nil {
		var count int64
		if err := db.Model(&model.Route{}).Where("id = ?", *input.RouteId).Count(&count).Error; err != nil {
			return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
		}
		if count == 0 {
			return utils.HandleError(c, domain.NotFoundError{Resource: "route"})
		}
	}
	if input.Location != nil {
		machine.Location = *input.Location
	}
	if input.RouteId != nil {
		machine.RouteId = *input.RouteId
	}
	if input.Status != nil {
		machine.Status = *input.Status
	}
	if input.IsPublic != nil {
		machine.IsPublic = *input.IsPublic
	}

	if err := db.Omit("Route").Save(&machine).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, machine)
}

func machineFromLocals(c *fiber.Ctx) (model.Machine, bool) {
	machine, ok := c.Locals("machine").(model.Machine)
	return machine, ok
}

// GetMachineTrips lists the upcoming trips of the kiosk's route.
func GetMachineTrips(c *fiber.Ctx) error {
	machine, ok := machineFromLocals(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var trips []model.Trip
	if err := database.DB.Preload("Route").Preload("Bus").
		Where("route_id = ? AND status = ? AND departure_time > ?", machine.RouteId, constants.TRIP_SCHEDULED, time.Now()).
		Order("departure_time asc").
		Find(&trips).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, trips)
}

func MachineSellTicket(c *fiber.Ctx) error {
	machine, ok := machineFromLocals(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	if machine.Status != constants.MACHINE_ONLINE {
		return utils.HandleError(c, domain.InvalidStateError{Resource: "machine", Status: machine.Status})
	}
	input, ok := c.Locals("bookTicketInput").(model.BookTicketInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var onRoute int64
	if err := database.DB.Model(&model.Trip{}).
		Where("id = ? AND route_id = ?", input.TripId, machine.RouteId).
		Count(&onRoute).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if onRoute == 0 {
		return utils.HandleError(c, domain.NotFoundError{Resource: "trip"})
	}

	req := bookingRequestFrom(input, constants.CHANNEL_MACHINE)
	req.MachineId = &machine.ID
	if req.PaymentMethod == "" {
		req.PaymentMethod = constants.PAYMENT_METHOD_CARD
	}
	return issueTicket(c, req)
}

// MachineHeartbeat marks the kiosk ONLINE. Machines under maintenance keep
// their status and only refresh the heartbeat time.
func MachineHeartbeat(c *fiber.Ctx) error {
	machine, ok := machineFromLocals(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	at := time.Now()
	updates := map[string]any{"last_heartbeat_at": at}
	if machine.Status != constants.MACHINE_MAINTENANCE {
		updates["status"] = constants.MACHINE_ONLINE
		machine.Status = constants.MACHINE_ONLINE
	}
	if err := database.DB.Model(&model.Machine{}).Where("id = ?", machine.ID).Updates(updates).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	machine.LastHeartbeatAt = &at
	return utils.SuccessResponse(c, fiber.StatusOK, machine)
}

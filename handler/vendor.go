package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/model"
	"bus_portal/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetVendorBuses(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	var buses []model.Bus
	if err := database.DB.Where("vendor_id = ?", vendorId).Order("id desc").Find(&buses).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, buses)
}

func CreateBus(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	input, ok := c.Locals("createBusInput").(model.CreateBusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	bus := new(model.Bus)
	copier.Copy(bus, &input)
	bus.VendorId = vendorId
	bus.Status = constants.BUS_ACTIVE

	if err := database.DB.Omit("Vendor").Create(bus).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return utils.HandleError(c, domain.ConflictError{Resource: "bus", Msg: "plate number already registered", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, bus)
}

// EditBusStatus takes a bus in or out of MAINTENANCE. Trips already
// scheduled on it keep running; only new trips are refused.
func EditBusStatus(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	input, ok := c.Locals("editBusStatusInput").(model.EditBusStatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	var bus model.Bus
	if err := database.DB.Where("id = ? AND vendor_id = ?", id, vendorId).First(&bus).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "bus", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if err := database.DB.Model(&model.Bus{}).Where("id = ?", bus.ID).Update("status", input.Status).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_EDIT, Err: err})
	}
	bus.Status = input.Status
	if bus.Status == constants.BUS_MAINTENANCE {
		log.Printf("[BUS] %s moved to maintenance by vendor %d", bus.PlateNumber, vendorId)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bus)
}

// SellTicket is the operator counter sale: cash by default, and only for
// trips running on the vendor's own buses.
func SellTicket(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	input, ok := c.Locals("bookTicketInput").(model.BookTicketInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	var owned int64
	if err := database.DB.Model(&model.Trip{}).
		Joins("JOIN buses ON buses.id = trips.bus_id").
		Where("trips.id = ? AND buses.vendor_id = ?", input.TripId, vendorId).
		Count(&owned).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if owned == 0 {
		return utils.HandleError(c, domain.NotFoundError{Resource: "trip"})
	}

	req := bookingRequestFrom(input, constants.CHANNEL_VENDOR)
	req.VendorId = &vendorId
	if req.PaymentMethod == "" {
		req.PaymentMethod = constants.PAYMENT_METHOD_CASH
	}
	return issueTicket(c, req)
}

func GetVendorTickets(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	var filter model.FilterTicketInput
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	db := database.DB
	query := db.Model(&model.Ticket{}).
		Where("trip_id IN (?)", db.Model(&model.Trip{}).Select("trips.id").
			Joins("JOIN buses ON buses.id = trips.bus_id").
			Where("buses.vendor_id = ?", vendorId))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TripId > 0 {
		query = query.Where("trip_id = ?", filter.TripId)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	var tickets []model.Ticket
	query = utils.ApplyPagination(query.Preload("Trip").Preload("Trip.Route").Preload("Seat").Order("booked_at desc"), filter.Limit, filter.Page)
	if err := query.Find(&tickets).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       tickets,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetVendors(c *fiber.Ctx) error {
	var vendors []model.Vendor
	if err := database.DB.Order("id desc").Find(&vendors).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, vendors)
}

// CreateVendor registers the VENDOR login and its company profile together.
func CreateVendor(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("createVendorInput").(model.CreateVendorInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	input.Email = helper.NormalizeEmail(input.Email)

	exists, err := helper.CheckEmailExists(db, input.Email)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if exists {
		return utils.HandleError(c, domain.ConflictError{Msg: constants.EMAIL_EXISTS})
	}
	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.CAN_NOT_HASH_PASSWORD, Err: err})
	}

	user := model.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: hash,
		Role:     constants.ROLE_VENDOR,
		IsActive: true,
		Vendor: &model.Vendor{
			CompanyName: input.CompanyName,
			Phone:       input.Phone,
			Address:     input.Address,
			IsActive:    true,
		},
	}
	if err := db.Create(&user).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return utils.HandleError(c, domain.ConflictError{Msg: constants.EMAIL_EXISTS, Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_CREATE, Err: err})
	}

	log.Printf("Vendor %d (%s) created", user.Vendor.ID, user.Vendor.CompanyName)
	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

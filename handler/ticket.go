package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/ledger"
	"bus_portal/model"
	"bus_portal/utils"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const qrImageSize = 256

func BookTicket(c *fiber.Ctx) error {
	claim, ok := helper.GetClaim(c)
	if !ok {
		return utils.HandleError(c, domain.UnauthorizedError{})
	}
	input, ok := c.Locals("bookTicketInput").(model.BookTicketInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	req := bookingRequestFrom(input, constants.CHANNEL_ONLINE)
	req.UserId = &claim.UserId
	if req.PassengerEmail == "" {
		req.PassengerEmail = claim.Email
	}
	return issueTicket(c, req)
}

func bookingRequestFrom(input model.BookTicketInput, channel string) ledger.BookingRequest {
	return ledger.BookingRequest{
		TripId:         input.TripId,
		SeatId:         input.SeatId,
		Channel:        channel,
		PassengerName:  input.PassengerName,
		PassengerPhone: input.PassengerPhone,
		PassengerEmail: input.PassengerEmail,
		PaymentMethod:  input.PaymentMethod,
	}
}

// issueTicket books through the ledger and then runs the best-effort side
// effects: seat map broadcast and confirmation mail.
func issueTicket(c *fiber.Ctx, req ledger.BookingRequest) error {
	ticket, err := ledger.BookSeat(c.UserContext(), database.DB, req)
	if err != nil {
		return utils.HandleError(c, err)
	}
	log.Printf("Ticket %s issued for trip %d via %s", ticket.QrCode, ticket.TripId, ticket.Channel)

	BroadcastTripSeats(ticket.TripId)

	full, err := loadTicket(ticket.ID)
	if err != nil {
		// already committed; answer with what the ledger returned
		return utils.SuccessResponse(c, fiber.StatusCreated, ticket)
	}
	utils.SendTicketEmail(full.PassengerEmail,
		utils.TicketSubject("Your bus ticket", full.QrCode),
		utils.TemplateTicketConfirmation,
		ticketMailData(full))
	return utils.SuccessResponse(c, fiber.StatusCreated, full)
}

func loadTicket(id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := database.DB.
		Preload("Trip").
		Preload("Trip.Route").
		Preload("Trip.Bus").
		Preload("Seat").
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func ticketMailData(t *model.Ticket) utils.TicketMailData {
	data := utils.TicketMailData{
		QrCode:        t.QrCode,
		PassengerName: t.PassengerName,
		Route:         t.Trip.Route.Origin + " - " + t.Trip.Route.Destination,
		Departure:     t.Trip.DepartureTime.Format("02/01/2006 15:04"),
		Price:         t.Price,
	}
	if t.Seat != nil {
		data.SeatNumber = t.Seat.SeatNumber
	}
	if t.CancelledAt != nil {
		data.CancelledAt = t.CancelledAt.Format("02/01/2006 15:04")
		data.RefundAmount = t.Price
	}
	return data
}

// canAccessTicket allows admins, the buyer, and the vendor that sold the
// ticket or operates the bus.
func canAccessTicket(claim model.TokenClaim, t *model.Ticket) bool {
	switch claim.Role {
	case constants.ROLE_ADMIN:
		return true
	case constants.ROLE_VENDOR:
		if claim.VendorId == nil {
			return false
		}
		if t.VendorId != nil && *t.VendorId == *claim.VendorId {
			return true
		}
		return t.Trip.Bus.VendorId == *claim.VendorId
	default:
		return t.UserId != nil && *t.UserId == claim.UserId
	}
}

// ticketForRequest loads :id and checks the caller may see it. It writes the
// error response itself and returns nil when the request must stop.
func ticketForRequest(c *fiber.Ctx) (*model.Ticket, error) {
	claim, ok := helper.GetClaim(c)
	if !ok {
		return nil, utils.HandleError(c, domain.UnauthorizedError{})
	}
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return nil, utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}
	ticket, err := loadTicket(id)
	if err != nil {
		if helper.IsRecordNotFound(err) {
			return nil, utils.HandleError(c, domain.NotFoundError{Resource: "ticket", Err: err})
		}
		return nil, utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	if !canAccessTicket(claim, ticket) {
		return nil, utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	return ticket, nil
}

func GetMyTickets(c *fiber.Ctx) error {
	claim, ok := helper.GetClaim(c)
	if !ok {
		return utils.HandleError(c, domain.UnauthorizedError{})
	}
	var filter model.FilterTicketInput
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	query := database.DB.Model(&model.Ticket{}).Where("user_id = ?", claim.UserId)
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

func GetTicketById(c *fiber.Ctx) error {
	ticket, err := ticketForRequest(c)
	if ticket == nil {
		return err
	}
	qrImage, err := utils.QRCodeDataURL(ticket.QrCode, qrImageSize)
	if err != nil {
		log.Printf("QR render for ticket %d: %v", ticket.ID, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"ticket":  ticket,
		"qrImage": qrImage,
	})
}

func GetTicketQR(c *fiber.Ctx) error {
	ticket, err := ticketForRequest(c)
	if ticket == nil {
		return err
	}
	png, err := utils.GenerateQRCode(ticket.QrCode, qrImageSize)
	if err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: "could not render QR code", Err: err})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Send(png)
}

// CancelTicket refunds a BOOKED ticket. Owner, selling vendor or admin only.
func CancelTicket(c *fiber.Ctx) error {
	ticket, err := ticketForRequest(c)
	if ticket == nil {
		return err
	}

	result, err := ledger.CancelTicket(c.UserContext(), database.DB, ticket.ID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	log.Printf("Ticket %s cancelled, refund %s %.2f", result.Ticket.QrCode, result.Refund.Reference, result.Refund.Amount)

	BroadcastTripSeats(result.Ticket.TripId)

	ticket.Status = result.Ticket.Status
	ticket.PaymentStatus = result.Ticket.PaymentStatus
	ticket.CancelledAt = result.Ticket.CancelledAt
	utils.SendTicketEmail(ticket.PassengerEmail,
		utils.TicketSubject("Ticket cancelled", ticket.QrCode),
		utils.TemplateTicketCancelled,
		ticketMailData(ticket))

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"ticket": ticket,
		"refund": result.Refund,
	})
}

func VerifyTicket(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return utils.HandleError(c, domain.ValidationError{Field: "code", Msg: "boarding code is required"})
	}
	check, err := ledger.VerifyBoardingCode(c.UserContext(), database.DB, code)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if vendorId, ok := vendorIdFromClaim(c); ok {
		if check.Ticket.Trip.Bus.VendorId != vendorId {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, fmt.Errorf("ticket belongs to another operator"))
		}
	}
	if check.Valid && time.Now().After(check.Ticket.Trip.ArrivalTime) {
		check.Valid = false
		check.Reason = "trip has already arrived"
	}
	return utils.SuccessResponse(c, fiber.StatusOK, check)
}

package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/helper"
	"bus_portal/ledger"
	"bus_portal/model"
	"bus_portal/utils"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type tripDetail struct {
	model.Trip
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

func SearchPublicTrips(c *fiber.Ctx) error {
	input, ok := c.Locals("searchTripInput").(model.SearchTripInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	query := database.DB.Model(&model.Trip{}).
		Joins("JOIN routes ON routes.id = trips.route_id").
		Where("routes.is_active = ?", true).
		Where("trips.status = ? AND trips.departure_time > ?", constants.TRIP_SCHEDULED, time.Now())

	if input.Origin != "" {
		query = query.Where("LOWER(routes.origin) LIKE ?", "%"+strings.ToLower(input.Origin)+"%")
	}
	if input.Destination != "" {
		query = query.Where("LOWER(routes.destination) LIKE ?", "%"+strings.ToLower(input.Destination)+"%")
	}
	if input.Date != "" {
		day, _ := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		query = query.Where("trips.departure_time >= ? AND trips.departure_time < ?", day, day.AddDate(0, 0, 1))
	}

	var trips []model.Trip
	if err := query.Preload("Route").Preload("Bus").
		Order("trips.departure_time asc").
		Find(&trips).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, trips)
}

func GetPublicTripById(c *fiber.Ctx) error {
	db := database.DB
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}

	var detail tripDetail
	if err := db.Preload("Route").Preload("Bus").First(&detail.Trip, id).Error; err != nil {
		if helper.IsRecordNotFound(err) {
			return utils.HandleError(c, domain.NotFoundError{Resource: "trip", Err: err})
		}
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	var summary struct {
		Average float64
		Total   int64
	}
	if err := db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(id) AS total").
		Where("trip_id = ?", id).
		Scan(&summary).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	detail.AverageRating = summary.Average
	detail.ReviewCount = summary.Total

	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

func GetAdminTrips(c *fiber.Ctx) error {
	filter, ok := c.Locals("filterTripInput").(model.FilterTripInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	return listTrips(c, database.DB.Model(&model.Trip{}), filter)
}

func GetVendorTrips(c *fiber.Ctx) error {
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	filter, ok := c.Locals("filterTripInput").(model.FilterTripInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	query := database.DB.Model(&model.Trip{}).
		Where("trips.bus_id IN (?)", database.DB.Model(&model.Bus{}).Select("id").Where("vendor_id = ?", vendorId))
	return listTrips(c, query, filter)
}

func listTrips(c *fiber.Ctx, query *gorm.DB, filter model.FilterTripInput) error {
	if filter.Status != "" {
		query = query.Where("trips.status = ?", filter.Status)
	}
	if filter.RouteId > 0 {
		query = query.Where("trips.route_id = ?", filter.RouteId)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	var trips []model.Trip
	query = utils.ApplyPagination(query.Preload("Route").Preload("Bus").Order("trips.departure_time desc"), filter.Limit, filter.Page)
	if err := query.Find(&trips).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       trips,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

// CreateTrip schedules a trip on one of the vendor's buses and generates its
// seats in the same transaction.
func CreateTrip(c *fiber.Ctx) error {
	db := database.DB
	vendorId, ok := vendorIdFromClaim(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.FORBIDDEN, nil)
	}
	input, ok := c.Locals("createTripInput").(model.CreateTripInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}
	if !input.DepartureTime.After(time.Now()) {
		return utils.HandleError(c, domain.ValidationError{Field: "departureTime", Msg: "must be in the future"})
	}

	var trip model.Trip
	err := db.Transaction(func(tx *gorm.DB) error {
		var bus model.Bus
		if err := tx.Where("id = ? AND vendor_id = ?", input.BusId, vendorId).First(&bus).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return domain.NotFoundError{Resource: "bus", Err: err}
			}
			return err
		}
		if bus.Status != constants.BUS_ACTIVE {
			return domain.InvalidStateError{Resource: "bus", Status: bus.Status}
		}

		var route model.Route
		if err := tx.First(&route, input.RouteId).Error; err != nil {
			if helper.IsRecordNotFound(err) {
				return domain.NotFoundError{Resource: "route", Err: err}
			}
			return err
		}
		if !route.IsActive {
			return domain.InvalidStateError{Resource: "route", Msg: "route is not active"}
		}

		var overlapping int64
		if err := tx.Model(&model.Trip{}).
			Where("bus_id = ? AND status IN ?", bus.ID, []string{constants.TRIP_SCHEDULED, constants.TRIP_DEPARTED}).
			Where("departure_time < ? AND arrival_time > ?", input.ArrivalTime, input.DepartureTime).
			Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return domain.ConflictError{Resource: "trip", Msg: "bus already has a trip in this time window"}
		}

		price := input.Price
		if price == 0 {
			price = route.BasePrice
		}
		trip = model.Trip{
			BusId:          bus.ID,
			RouteId:        route.ID,
			DepartureTime:  input.DepartureTime,
			ArrivalTime:    input.ArrivalTime,
			Price:          price,
			AvailableSeats: bus.TotalSeats,
			Status:         constants.TRIP_SCHEDULED,
		}
		if err := tx.Omit("Bus", "Route", "Seats").Create(&trip).Error; err != nil {
			return err
		}
		if err := helper.GenerateSeats(tx, trip.ID, bus.TotalSeats); err != nil {
			return err
		}
		trip.Bus = bus
		trip.Route = route
		return nil
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	log.Printf("Vendor %d scheduled trip %d with %d seats", vendorId, trip.ID, trip.AvailableSeats)
	return utils.SuccessResponse(c, fiber.StatusCreated, trip)
}

func RecountTrip(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, nil)
	}
	drift, err := ledger.RecountAvailableSeats(c.UserContext(), database.DB, id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	if drift.Before != drift.After {
		log.Printf("Trip %d seat counter repaired: %d -> %d", id, drift.Before, drift.After)
		BroadcastTripSeats(id)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, drift)
}

func vendorIdFromClaim(c *fiber.Ctx) (uint, bool) {
	claim, ok := helper.GetClaim(c)
	if !ok || claim.VendorId == nil {
		return 0, false
	}
	return *claim.VendorId, true
}

package handler

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/domain"
	"bus_portal/model"
	"bus_portal/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type topRoute struct {
	RouteId     uint    `json:"routeId"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Tickets     int64   `json:"tickets"`
	Revenue     float64 `json:"revenue"`
}

type adminStats struct {
	Users    int64 `json:"users"`
	Vendors  int64 `json:"vendors"`
	Buses    int64 `json:"buses"`
	Routes   int64 `json:"routes"`
	Machines int64 `json:"machines"`

	UpcomingTrips int64   `json:"upcomingTrips"`
	TodayRevenue  float64 `json:"todayRevenue"`
	TodayRefunds  float64 `json:"todayRefunds"`
	TodayTickets  int64   `json:"todayTickets"`
	RevenueGrowth float64 `json:"revenueGrowth"`
	TicketsGrowth float64 `json:"ticketsGrowth"`

	TicketsByStatus map[string]int64 `json:"ticketsByStatus"`
	TopRoutes       []topRoute       `json:"topRoutes"`
}

func sumTransactions(db *gorm.DB, kind string, from, to time.Time) (float64, error) {
	var total float64
	err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ? AND status = ? AND created_at >= ? AND created_at < ?", kind, constants.TRANSACTION_COMPLETED, from, to).
		Scan(&total).Error
	return total, err
}

func countTicketsBooked(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&model.Ticket{}).Where("booked_at >= ? AND booked_at < ?", from, to).Count(&count).Error
	return count, err
}

// paymentsAndRefunds sums completed payments and completed refunds in [from, to).
func paymentsAndRefunds(db *gorm.DB, from, to time.Time) (paid, refunded float64, err error) {
	if paid, err = sumTransactions(db, constants.TRANSACTION_PAYMENT, from, to); err != nil {
		return 0, 0, err
	}
	if refunded, err = sumTransactions(db, constants.TRANSACTION_REFUND, from, to); err != nil {
		return 0, 0, err
	}
	return paid, refunded, nil
}

// GetAdminStats reports platform counts and today's sales against yesterday.
// Revenue is net of refunds.
func GetAdminStats(c *fiber.Ctx) error {
	db := database.DB
	var stats adminStats
	internal := func(err error) error {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	counts := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{db.Model(&model.User{}).Where("role = ?", constants.ROLE_USER), &stats.Users},
		{db.Model(&model.Vendor{}), &stats.Vendors},
		{db.Model(&model.Bus{}), &stats.Buses},
		{db.Model(&model.Route{}).Where("is_active = ?", true), &stats.Routes},
		{db.Model(&model.Machine{}), &stats.Machines},
		{db.Model(&model.Trip{}).
			Where("status = ? AND departure_time > ? AND departure_time < ?", constants.TRIP_SCHEDULED, now, now.Add(24*time.Hour)),
			&stats.UpcomingTrips},
	}
	for _, cq := range counts {
		if err := cq.query.Count(cq.dst).Error; err != nil {
			return internal(err)
		}
	}

	todayPaid, todayRefunds, err := paymentsAndRefunds(db, todayStart, tomorrowStart)
	if err != nil {
		return internal(err)
	}
	stats.TodayRefunds = todayRefunds
	stats.TodayRevenue = todayPaid - todayRefunds
	if stats.TodayTickets, err = countTicketsBooked(db, todayStart, tomorrowStart); err != nil {
		return internal(err)
	}

	yesterdayPaid, yesterdayRefunds, err := paymentsAndRefunds(db, yesterdayStart, todayStart)
	if err != nil {
		return internal(err)
	}
	yesterdayTickets, err := countTicketsBooked(db, yesterdayStart, todayStart)
	if err != nil {
		return internal(err)
	}

	stats.RevenueGrowth = utils.CalculateGrowth(stats.TodayRevenue, yesterdayPaid-yesterdayRefunds)
	stats.TicketsGrowth = utils.CalculateGrowth(float64(stats.TodayTickets), float64(yesterdayTickets))

	var byStatus []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&model.Ticket{}).Select("status, COUNT(id) AS total").Group("status").Scan(&byStatus).Error; err != nil {
		return internal(err)
	}
	stats.TicketsByStatus = map[string]int64{}
	for _, s := range byStatus {
		stats.TicketsByStatus[s.Status] = s.Total
	}

	stats.TopRoutes = []topRoute{}
	if err := db.Table("tickets").
		Select("routes.id AS route_id, routes.origin, routes.destination, COUNT(tickets.id) AS tickets, COALESCE(SUM(tickets.price), 0) AS revenue").
		Joins("JOIN trips ON trips.id = tickets.trip_id").
		Joins("JOIN routes ON routes.id = trips.route_id").
		Where("tickets.status = ?", constants.TICKET_BOOKED).
		Group("routes.id, routes.origin, routes.destination").
		Order("revenue DESC").
		Limit(5).
		Scan(&stats.TopRoutes).Error; err != nil {
		return internal(err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

func GetTransactions(c *fiber.Ctx) error {
	filter, ok := c.Locals("filterTransactionInput").(model.FilterTransactionInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	query := database.DB.Model(&model.Transaction{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}
	var transactions []model.Transaction
	query = utils.ApplyPagination(query.Order("id desc"), filter.Limit, filter.Page)
	if err := query.Find(&transactions).Error; err != nil {
		return utils.HandleError(c, domain.InternalError{Msg: constants.ERROR_INTERNAL_ERROR, Err: err})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       transactions,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

package handler_test

import (
	"bus_portal/constants"
	"bus_portal/ledger"
	"bus_portal/model"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.do(t, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/stats", tokenFor(t, h.fx.User, nil), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/stats", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminStats(t *testing.T) {
	h := newHarness(t)
	owner := tokenFor(t, h.fx.User, nil)
	h.bookOnline(t, owner, h.fx.Seats[0])
	cancelled := h.bookOnline(t, owner, h.fx.Seats[1])
	resp, _ := h.do(t, http.MethodPost, fmt.Sprintf("/api/tickets/%d/cancel", cancelled.ID), owner, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := h.do(t, http.MethodGet, "/api/admin/stats", tokenFor(t, h.fx.Admin, nil), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats struct {
		Users           int64            `json:"users"`
		Vendors         int64            `json:"vendors"`
		TodayRevenue    float64          `json:"todayRevenue"`
		TodayRefunds    float64          `json:"todayRefunds"`
		TodayTickets    int64            `json:"todayTickets"`
		TicketsByStatus map[string]int64 `json:"ticketsByStatus"`
		TopRoutes       []struct {
			RouteId uint  `json:"routeId"`
			Tickets int64 `json:"tickets"`
		} `json:"topRoutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.Users)
	assert.EqualValues(t, 1, stats.Vendors)
	assert.EqualValues(t, 2, stats.TodayTickets)
	assert.Equal(t, h.fx.Trip.Price, stats.TodayRefunds)
	assert.Equal(t, h.fx.Trip.Price, stats.TodayRevenue)
	assert.EqualValues(t, 1, stats.TicketsByStatus[constants.TICKET_BOOKED])
	assert.EqualValues(t, 1, stats.TicketsByStatus[constants.TICKET_CANCELLED])
	require.Len(t, stats.TopRoutes, 1)
	assert.Equal(t, h.fx.Route.ID, stats.TopRoutes[0].RouteId)
	assert.EqualValues(t, 1, stats.TopRoutes[0].Tickets)
}

func TestAdminTransactions(t *testing.T) {
	h := newHarness(t)
	owner := tokenFor(t, h.fx.User, nil)
	admin := tokenFor(t, h.fx.Admin, nil)
	ticket := h.bookOnline(t, owner, h.fx.Seats[0])
	resp, _ := h.do(t, http.MethodPost, fmt.Sprintf("/api/tickets/%d/cancel", ticket.ID), owner, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/admin/transactions?type=VOID", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env := h.do(t, http.MethodGet, "/api/admin/transactions?type=REFUND", admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Rows       []model.Transaction `json:"rows"`
		TotalCount int64               `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalCount)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, ticket.ID, page.Rows[0].TicketId)
	assert.Equal(t, constants.TRANSACTION_COMPLETED, page.Rows[0].Status)
}

func TestAdminRecountTrip(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.db.Model(&model.Trip{}).Where("id = ?", h.fx.Trip.ID).Update("available_seats", 2).Error)

	resp, env := h.do(t, http.MethodPost, fmt.Sprintf("/api/admin/trips/%d/recount", h.fx.Trip.ID), tokenFor(t, h.fx.Admin, nil), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var drift ledger.Drift
	require.NoError(t, json.Unmarshal(env.Data, &drift))
	assert.Equal(t, 2, drift.Before)
	assert.Equal(t, h.fx.Bus.TotalSeats, drift.After)
}

func TestAdminManagesRoutes(t *testing.T) {
	h := newHarness(t)
	admin := tokenFor(t, h.fx.Admin, nil)

	resp, env := h.do(t, http.MethodPost, "/api/admin/routes", admin, fiber.Map{
		"origin": "Da Nang", "destination": "Hue", "basePrice": 120000,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var route model.Route
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.Equal(t, "da-nang-hue", route.Slug)
	assert.True(t, route.IsActive)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/routes", admin, fiber.Map{
		"origin": "Hue", "destination": "Hue", "basePrice": 1000,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = h.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/routes/%d/active", route.ID), admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &route))
	assert.False(t, route.IsActive)

	resp, env = h.do(t, http.MethodGet, "/api/routes/public", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var public []model.Route
	require.NoError(t, json.Unmarshal(env.Data, &public))
	require.Len(t, public, 1)
	assert.Equal(t, h.fx.Route.ID, public[0].ID)
}

func TestAdminCreatesVendor(t *testing.T) {
	h := newHarness(t)
	admin := tokenFor(t, h.fx.Admin, nil)

	resp, _ := h.do(t, http.MethodPost, "/api/admin/vendors", admin, fiber.Map{
		"name": "Ops Lead", "email": "ops@southline.local", "password": "secret123", "companyName": "Southline",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user model.User
	require.NoError(t, h.db.Preload("Vendor").Where("email = ?", "ops@southline.local").First(&user).Error)
	assert.Equal(t, constants.ROLE_VENDOR, user.Role)
	require.NotNil(t, user.Vendor)
	assert.Equal(t, "Southline", user.Vendor.CompanyName)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/vendors", admin, fiber.Map{
		"name": "Dup", "email": "ops@southline.local", "password": "secret123", "companyName": "Dup Co",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestMachineKiosk(t *testing.T) {
	h := newHarness(t)
	admin := tokenFor(t, h.fx.Admin, nil)

	resp, env := h.do(t, http.MethodPost, "/api/admin/machines", admin, fiber.Map{
		"code": "KSK-01", "location": "Giap Bat station", "routeId": h.fx.Route.ID, "isPublic": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = h.do(t, http.MethodPost, "/api/admin/machines", admin, fiber.Map{
		"code": "KSK-02", "location": "Back office", "routeId": h.fx.Route.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-02/trips?public=true", "", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-02/trips", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-02/trips", admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/machines/NOPE/trips?public=true", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	vendor := tokenFor(t, h.fx.VendorUser, &h.fx.Vendor.ID)
	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-01/trips", vendor, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-01/trips", tokenFor(t, h.fx.User, nil), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// KSK-01 is still OFFLINE
	resp, _ = h.do(t, http.MethodGet, "/api/machines/KSK-01/trips?public=true", "", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	sale := fiber.Map{"tripId": h.fx.Trip.ID, "seatId": h.fx.Seats[7].ID, "passengerName": "Kiosk Rider"}
	resp, _ = h.do(t, http.MethodPost, "/api/machines/KSK-01/tickets?public=true", "", sale)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = h.do(t, http.MethodPost, "/api/machines/KSK-01/tickets", admin, sale)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "offline kiosk must not sell")

	resp, _ = h.do(t, http.MethodPost, "/api/machines/KSK-01/heartbeat?public=true", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = h.do(t, http.MethodGet, "/api/machines/KSK-01/trips?public=true", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var trips []model.Trip
	require.NoError(t, json.Unmarshal(env.Data, &trips))
	require.Len(t, trips, 1)

	resp, env = h.do(t, http.MethodPost, "/api/machines/KSK-01/tickets?public=true", "", sale)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Message)
	var ticket model.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, constants.CHANNEL_MACHINE, ticket.Channel)
	require.NotNil(t, ticket.MachineId)
}

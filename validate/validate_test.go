package validate

import (
	"bus_portal/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripIdQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/seats", TripIdQuery(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tripId": c.Locals("tripId").(uint)})
	})

	for query, want := range map[string]int{
		"":           fiber.StatusBadRequest,
		"?tripId=":   fiber.StatusBadRequest,
		"?tripId=0":  fiber.StatusBadRequest,
		"?tripId=-3": fiber.StatusBadRequest,
		"?tripId=ab": fiber.StatusBadRequest,
		"?tripId=12": fiber.StatusOK,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/seats"+query, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "query %q", query)
	}
}

func TestCreateReviewRating(t *testing.T) {
	app := fiber.New()
	app.Post("/reviews", CreateReview(), func(c *fiber.Ctx) error {
		input := c.Locals("createReviewInput").(model.CreateReviewInput)
		return c.JSON(input)
	})

	for body, want := range map[string]int{
		`{"tripId":1,"rating":5}`: fiber.StatusOK,
		`{"tripId":1,"rating":1}`: fiber.StatusOK,
		`{"tripId":1,"rating":6}`: fiber.StatusBadRequest,
		`{"tripId":1,"rating":0}`: fiber.StatusBadRequest,
		`{"rating":3}`:            fiber.StatusBadRequest,
		`not json`:                fiber.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "body %s", body)
	}
}

func TestSearchTripsDate(t *testing.T) {
	app := fiber.New()
	app.Get("/trips", SearchTrips(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/trips?date=2026-13-40", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/trips?origin=Hanoi&date=2026-11-02", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDescribe(t *testing.T) {
	err := validate.Struct(model.BookTicketInput{TripId: 1, SeatId: 2, PassengerName: "A", PaymentMethod: "CHEQUE"})
	require.Error(t, err)
	msg := describe(err)
	assert.Contains(t, msg, "passengerName must satisfy min=2")
	assert.Contains(t, msg, "paymentMethod must be one of [CASH CARD]")
}

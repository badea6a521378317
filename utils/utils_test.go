package utils

import (
	"bus_portal/domain"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatLabel(t *testing.T) {
	cases := map[int]string{
		0:   "A1",
		3:   "A4",
		4:   "B1",
		7:   "B4",
		103: "Z4",
		104: "AA1",
		108: "AB1",
	}
	for index, want := range cases {
		assert.Equal(t, want, SeatLabel(index, 4), "index %d", index)
	}
}

func TestGenerateBoardingCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateBoardingCode()
		assert.Regexp(t, `^BT-[0-9A-F]{12}$`, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestGenerateQRCode(t *testing.T) {
	png, err := GenerateQRCode("BT-0123456789AB", 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	url, err := QRCodeDataURL("BT-0123456789AB", 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestCalculateGrowth(t *testing.T) {
	assert.Equal(t, 0.0, CalculateGrowth(0, 0))
	assert.Equal(t, 100.0, CalculateGrowth(5, 0))
	assert.Equal(t, 50.0, CalculateGrowth(150, 100))
	assert.Equal(t, -25.0, CalculateGrowth(75, 100))
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.UnauthorizedError{}, fiber.StatusUnauthorized},
		{domain.NotFoundError{Resource: "ticket"}, fiber.StatusNotFound},
		{domain.ValidationError{Field: "tripId", Msg: "is required"}, fiber.StatusBadRequest},
		{domain.ConflictError{Resource: "seat", Msg: "taken"}, fiber.StatusConflict},
		{domain.InvalidStateError{Resource: "ticket", Status: "CANCELLED"}, fiber.StatusConflict},
		{domain.InternalError{Msg: "boom", Err: errors.New("db down")}, fiber.StatusInternalServerError},
		{errors.New("anything else"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, "%T", tc.err)

		raw, _ := io.ReadAll(resp.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Contains(t, body, "message")
	}
}

func TestHandleErrorSeesWrappedErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleError(c, errors.Join(errors.New("context"), domain.NotFoundError{Resource: "trip"}))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

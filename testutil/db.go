// Package testutil opens throwaway databases and seeds a small bus network for
// package tests.
package testutil

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/model"
	"bus_portal/utils"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "secret123"

// NewTestDB opens an in-memory sqlite database, migrates it and installs it as
// database.DB for the duration of the test. A single connection serializes
// transactions, so concurrent callers observe each other's commits.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
	return db
}

type Fixture struct {
	Admin      model.User
	User       model.User
	VendorUser model.User
	Vendor     model.Vendor
	Bus        model.Bus
	Route      model.Route
	Trip       model.Trip
	Seats      []model.Seat
}

func CreateUser(t *testing.T, db *gorm.DB, email, role string) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Name:     "Test " + role,
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateTrip schedules a trip on bus/route departing at departure with one
// AVAILABLE seat per bus seat.
func CreateTrip(t *testing.T, db *gorm.DB, bus model.Bus, route model.Route, departure time.Time) (model.Trip, []model.Seat) {
	t.Helper()
	trip := model.Trip{
		BusId:          bus.ID,
		RouteId:        route.ID,
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(4 * time.Hour),
		Price:          route.BasePrice,
		AvailableSeats: bus.TotalSeats,
		Status:         constants.TRIP_SCHEDULED,
	}
	require.NoError(t, db.Omit("Bus", "Route", "Seats").Create(&trip).Error)

	seats := make([]model.Seat, 0, bus.TotalSeats)
	for i := 0; i < bus.TotalSeats; i++ {
		seats = append(seats, model.Seat{
			TripId:     trip.ID,
			SeatNumber: utils.SeatLabel(i, constants.SEATS_PER_ROW),
			Status:     constants.SEAT_AVAILABLE,
		})
	}
	require.NoError(t, db.Create(&seats).Error)
	return trip, seats
}

// Seed creates one of each account kind, a vendor with an 8 seat bus, an
// active route and a trip departing in two days.
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()
	fx := &Fixture{
		Admin:      CreateUser(t, db, "admin@test.local", constants.ROLE_ADMIN),
		User:       CreateUser(t, db, "user@test.local", constants.ROLE_USER),
		VendorUser: CreateUser(t, db, "vendor@test.local", constants.ROLE_VENDOR),
	}

	fx.Vendor = model.Vendor{UserId: fx.VendorUser.ID, CompanyName: "Northline Coaches", IsActive: true}
	require.NoError(t, db.Create(&fx.Vendor).Error)

	fx.Bus = model.Bus{VendorId: fx.Vendor.ID, PlateNumber: "51B-12345", Model: "Coach 40", TotalSeats: 8, Status: constants.BUS_ACTIVE}
	require.NoError(t, db.Omit("Vendor").Create(&fx.Bus).Error)

	fx.Route = model.Route{Origin: "Hanoi", Destination: "Hai Phong", Slug: "hanoi-hai-phong", DistanceKm: 120, DurationMinutes: 150, BasePrice: 150000, IsActive: true}
	require.NoError(t, db.Create(&fx.Route).Error)

	fx.Trip, fx.Seats = CreateTrip(t, db, fx.Bus, fx.Route, time.Now().Add(48*time.Hour))
	return fx
}

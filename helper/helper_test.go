package helper

import (
	"bus_portal/constants"
	"bus_portal/model"
	"bus_portal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	vendorId := uint(9)
	claim := model.TokenClaim{UserId: 3, Email: "v@test.local", Role: constants.ROLE_VENDOR, VendorId: &vendorId}

	access, err := GenerateAccessToken(claim)
	require.NoError(t, err)
	token, err := ParseToken(access)
	require.NoError(t, err)

	got, err := ClaimFromToken(token, "access")
	require.NoError(t, err)
	assert.Equal(t, claim.UserId, got.UserId)
	assert.Equal(t, claim.Role, got.Role)
	require.NotNil(t, got.VendorId)
	assert.Equal(t, vendorId, *got.VendorId)

	_, err = ClaimFromToken(token, "refresh")
	assert.Error(t, err)

	_, err = ParseToken(access + "x")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}

func TestGenerateUniqueRouteSlug(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)

	assert.Equal(t, "ho-chi-minh-da-lat", GenerateUniqueRouteSlug(db, "Ho Chi Minh", "Da Lat", 0))
	assert.Equal(t, "hanoi-hai-phong-1", GenerateUniqueRouteSlug(db, "Hanoi", "Hai Phong", 0))
	assert.Equal(t, "hanoi-hai-phong", GenerateUniqueRouteSlug(db, "Hanoi", "Hai Phong", fx.Route.ID))
}

func TestGenerateSeatsAndLoadSeatMap(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)

	trip := model.Trip{BusId: fx.Bus.ID, RouteId: fx.Route.ID, DepartureTime: time.Now().Add(time.Hour), ArrivalTime: time.Now().Add(3 * time.Hour), Price: 1, AvailableSeats: 6, Status: constants.TRIP_SCHEDULED}
	require.NoError(t, db.Omit("Bus", "Route", "Seats").Create(&trip).Error)
	require.NoError(t, GenerateSeats(db, trip.ID, 6))

	seatMap, err := LoadSeatMap(db, trip.ID)
	require.NoError(t, err)
	require.Len(t, seatMap.Seats, 6)
	assert.Equal(t, "A1", seatMap.Seats[0].SeatNumber)
	assert.Equal(t, "B2", seatMap.Seats[5].SeatNumber)
	assert.Equal(t, "B", seatMap.Seats[5].Row)
	assert.Equal(t, constants.SEAT_AVAILABLE, seatMap.Seats[5].Status)

	_, err = LoadSeatMap(db, 999)
	assert.True(t, IsRecordNotFound(err))
}

func TestUpdateTripStatuses(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	now := time.Now()

	leaving, _ := testutil.CreateTrip(t, db, fx.Bus, fx.Route, now.Add(-time.Hour))
	arrived, _ := testutil.CreateTrip(t, db, fx.Bus, fx.Route, now.Add(-6*time.Hour))

	departed, completed := UpdateTripStatuses(db, now)
	assert.EqualValues(t, 2, departed)
	assert.EqualValues(t, 1, completed)

	status := func(id uint) string {
		var trip model.Trip
		require.NoError(t, db.First(&trip, id).Error)
		return trip.Status
	}
	assert.Equal(t, constants.TRIP_DEPARTED, status(leaving.ID))
	assert.Equal(t, constants.TRIP_COMPLETED, status(arrived.ID))
	assert.Equal(t, constants.TRIP_SCHEDULED, status(fx.Trip.ID))
}

func TestMarkStaleMachinesOffline(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	now := time.Now()
	stale := now.Add(-time.Hour)
	fresh := now.Add(-time.Minute)

	machines := []model.Machine{
		{Code: "OLD-1", RouteId: fx.Route.ID, Status: constants.MACHINE_ONLINE, LastHeartbeatAt: &stale},
		{Code: "NEW-1", RouteId: fx.Route.ID, Status: constants.MACHINE_ONLINE, LastHeartbeatAt: &fresh},
		{Code: "FIX-1", RouteId: fx.Route.ID, Status: constants.MACHINE_MAINTENANCE, LastHeartbeatAt: &stale},
	}
	require.NoError(t, db.Omit("Route").Create(&machines).Error)

	assert.EqualValues(t, 1, MarkStaleMachinesOffline(db, now, 15*time.Minute))

	var old model.Machine
	require.NoError(t, db.Where("code = ?", "OLD-1").First(&old).Error)
	assert.Equal(t, constants.MACHINE_OFFLINE, old.Status)
}

func TestPurgeExpiredResetTokens(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	now := time.Now()

	tokens := []model.PasswordResetToken{
		{UserId: fx.User.ID, Token: "expired", ExpiresAt: now.Add(-time.Minute)},
		{UserId: fx.User.ID, Token: "valid", ExpiresAt: now.Add(time.Minute)},
	}
	require.NoError(t, db.Omit("User").Create(&tokens).Error)

	assert.EqualValues(t, 1, PurgeExpiredResetTokens(db, now))
	var left int64
	db.Model(&model.PasswordResetToken{}).Count(&left)
	assert.EqualValues(t, 1, left)
}

func TestRedisHelpersWithoutRedis(t *testing.T) {
	require.Nil(t, Redis)
	var out []string
	assert.False(t, CacheGet(t.Context(), "missing", &out))
	CacheSet(t.Context(), "k", []string{"v"}, time.Minute)
	CacheDelete(t.Context(), "k")
	assert.NoError(t, Publish(t.Context(), TripSeatChannel(1), map[string]int{"a": 1}))
	assert.Equal(t, "trip:12:seats", TripSeatChannel(12))
}

func TestIsDuplicateKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)

	dup := model.User{Name: "Dup", Email: fx.User.Email, Password: "x", Role: constants.ROLE_USER}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsDuplicateKey(nil))
}

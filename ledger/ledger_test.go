package ledger_test

import (
	"bus_portal/constants"
	"bus_portal/domain"
	"bus_portal/ledger"
	"bus_portal/model"
	"bus_portal/testutil"
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func book(t *testing.T, db *gorm.DB, fx *testutil.Fixture, seat model.Seat) *model.Ticket {
	t.Helper()
	ticket, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{
		TripId:         fx.Trip.ID,
		SeatId:         seat.ID,
		Channel:        constants.CHANNEL_ONLINE,
		UserId:         &fx.User.ID,
		PassengerName:  "Nguyen Van A",
		PassengerEmail: "a@test.local",
	})
	require.NoError(t, err)
	return ticket
}

func reloadTrip(t *testing.T, db *gorm.DB, id uint) model.Trip {
	t.Helper()
	var trip model.Trip
	require.NoError(t, db.First(&trip, id).Error)
	return trip
}

func countTransactions(t *testing.T, db *gorm.DB, ticketId uint, kind string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Transaction{}).Where("ticket_id = ? AND type = ?", ticketId, kind).Count(&n).Error)
	return n
}

func TestBookSeat(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)

	ticket := book(t, db, fx, fx.Seats[0])

	assert.Equal(t, constants.TICKET_BOOKED, ticket.Status)
	assert.Equal(t, constants.PAYMENT_PAID, ticket.PaymentStatus)
	assert.Equal(t, constants.PAYMENT_METHOD_CARD, ticket.PaymentMethod)
	assert.Equal(t, fx.Trip.Price, ticket.Price)
	assert.Regexp(t, regexp.MustCompile(`^BT-[0-9A-F]{12}$`), ticket.QrCode)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.Seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_BOOKED, seat.Status)
	require.NotNil(t, seat.TicketId)
	assert.Equal(t, ticket.ID, *seat.TicketId)

	assert.Equal(t, fx.Bus.TotalSeats-1, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)

	var payment model.Transaction
	require.NoError(t, db.Where("ticket_id = ? AND type = ?", ticket.ID, constants.TRANSACTION_PAYMENT).First(&payment).Error)
	assert.Equal(t, constants.TRANSACTION_COMPLETED, payment.Status)
	assert.Equal(t, ticket.Price, payment.Amount)
	assert.Equal(t, "PY-"+ticket.QrCode, payment.Reference)
}

func TestBookSeatRejectsTakenSeat(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	book(t, db, fx, fx.Seats[0])

	_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{
		TripId:        fx.Trip.ID,
		SeatId:        fx.Seats[0].ID,
		PassengerName: "Someone Else",
	})
	assert.True(t, domain.IsConflict(err), "got %v", err)
	assert.Equal(t, fx.Bus.TotalSeats-1, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)

	var tickets int64
	db.Model(&model.Ticket{}).Count(&tickets)
	assert.EqualValues(t, 1, tickets)
}

func TestBookSeatChecksTripAndSeat(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	other, otherSeats := testutil.CreateTrip(t, db, fx.Bus, fx.Route, time.Now().Add(96*time.Hour))

	t.Run("unknown trip", func(t *testing.T) {
		_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{TripId: 9999, SeatId: fx.Seats[0].ID})
		assert.True(t, domain.IsNotFound(err), "got %v", err)
	})

	t.Run("seat of another trip", func(t *testing.T) {
		_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{TripId: fx.Trip.ID, SeatId: otherSeats[0].ID})
		assert.True(t, domain.IsNotFound(err), "got %v", err)
		assert.Equal(t, other.AvailableSeats, reloadTrip(t, db, other.ID).AvailableSeats)
	})

	t.Run("trip not scheduled", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", other.ID).Update("status", constants.TRIP_CANCELLED).Error)
		_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{TripId: other.ID, SeatId: otherSeats[0].ID})
		assert.True(t, domain.IsInvalidState(err), "got %v", err)
	})

	t.Run("departed trip", func(t *testing.T) {
		past, pastSeats := testutil.CreateTrip(t, db, fx.Bus, fx.Route, time.Now().Add(-time.Hour))
		_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{TripId: past.ID, SeatId: pastSeats[0].ID})
		assert.True(t, domain.IsInvalidState(err), "got %v", err)
	})

	t.Run("sold out", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", fx.Trip.ID).Update("available_seats", 0).Error)
		_, err := ledger.BookSeat(context.Background(), db, ledger.BookingRequest{TripId: fx.Trip.ID, SeatId: fx.Seats[1].ID})
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})
}

func TestCancelTicket(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	ticket := book(t, db, fx, fx.Seats[2])

	result, err := ledger.CancelTicket(context.Background(), db, ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, constants.TICKET_CANCELLED, result.Ticket.Status)
	assert.Equal(t, constants.PAYMENT_REFUNDED, result.Ticket.PaymentStatus)
	assert.NotNil(t, result.Ticket.CancelledAt)

	var stored model.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.Equal(t, constants.TICKET_CANCELLED, stored.Status)
	assert.Equal(t, constants.PAYMENT_REFUNDED, stored.PaymentStatus)
	assert.NotNil(t, stored.CancelledAt)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.Seats[2].ID).Error)
	assert.Equal(t, constants.SEAT_AVAILABLE, seat.Status)
	assert.Nil(t, seat.TicketId)

	assert.Equal(t, fx.Bus.TotalSeats, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)

	var refunds []model.Transaction
	require.NoError(t, db.Where("ticket_id = ? AND type = ?", ticket.ID, constants.TRANSACTION_REFUND).Find(&refunds).Error)
	require.Len(t, refunds, 1)
	assert.Equal(t, constants.TRANSACTION_COMPLETED, refunds[0].Status)
	assert.Equal(t, ticket.Price, refunds[0].Amount)
	assert.Equal(t, "RF-"+ticket.QrCode, refunds[0].Reference)
	assert.Equal(t, refunds[0].ID, result.Refund.ID)
}

func TestCancelTicketTwiceIsInvalidState(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	ticket := book(t, db, fx, fx.Seats[0])

	_, err := ledger.CancelTicket(context.Background(), db, ticket.ID)
	require.NoError(t, err)
	before := reloadTrip(t, db, fx.Trip.ID)

	_, err = ledger.CancelTicket(context.Background(), db, ticket.ID)
	assert.True(t, domain.IsInvalidState(err), "got %v", err)

	assert.Equal(t, before.AvailableSeats, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)
	assert.EqualValues(t, 1, countTransactions(t, db, ticket.ID, constants.TRANSACTION_REFUND))
}

func TestCancelTicketRefundedIsInvalidState(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	ticket := book(t, db, fx, fx.Seats[0])
	require.NoError(t, db.Model(&model.Ticket{}).Where("id = ?", ticket.ID).Update("status", constants.TICKET_REFUNDED).Error)

	_, err := ledger.CancelTicket(context.Background(), db, ticket.ID)
	assert.True(t, domain.IsInvalidState(err), "got %v", err)

	var seat model.Seat
	require.NoError(t, db.First(&seat, fx.Seats[0].ID).Error)
	assert.Equal(t, constants.SEAT_BOOKED, seat.Status)
	assert.Equal(t, fx.Bus.TotalSeats-1, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)
	assert.EqualValues(t, 0, countTransactions(t, db, ticket.ID, constants.TRANSACTION_REFUND))
}

func TestCancelTicketNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.Seed(t, db)

	_, err := ledger.CancelTicket(context.Background(), db, 4242)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestCancelTicketConcurrently(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	ticket := book(t, db, fx, fx.Seats[3])

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.CancelTicket(context.Background(), db, ticket.ID)
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case domain.IsInvalidState(err):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.EqualValues(t, 1, countTransactions(t, db, ticket.ID, constants.TRANSACTION_REFUND))
	assert.Equal(t, fx.Bus.TotalSeats, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)
}

func TestRecountAvailableSeats(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	book(t, db, fx, fx.Seats[0])
	book(t, db, fx, fx.Seats[1])

	drift, err := ledger.RecountAvailableSeats(context.Background(), db, fx.Trip.ID)
	require.NoError(t, err)
	assert.Equal(t, drift.Before, drift.After)

	require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", fx.Trip.ID).Update("available_seats", 1).Error)

	drift, err = ledger.RecountAvailableSeats(context.Background(), db, fx.Trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, drift.Before)
	assert.Equal(t, fx.Bus.TotalSeats-2, drift.After)
	assert.Equal(t, fx.Bus.TotalSeats-2, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)

	_, err = ledger.RecountAvailableSeats(context.Background(), db, 777)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestReconcileScheduledTrips(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	healthy, _ := testutil.CreateTrip(t, db, fx.Bus, fx.Route, time.Now().Add(72*time.Hour))
	require.NoError(t, db.Model(&model.Trip{}).Where("id = ?", fx.Trip.ID).Update("available_seats", 3).Error)

	drifts, err := ledger.ReconcileScheduledTrips(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, fx.Trip.ID, drifts[0].TripId)
	assert.Equal(t, fx.Bus.TotalSeats, reloadTrip(t, db, fx.Trip.ID).AvailableSeats)
	assert.Equal(t, fx.Bus.TotalSeats, reloadTrip(t, db, healthy.ID).AvailableSeats)
}

func TestVerifyBoardingCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.Seed(t, db)
	ticket := book(t, db, fx, fx.Seats[0])

	check, err := ledger.VerifyBoardingCode(context.Background(), db, ticket.QrCode)
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, fx.Route.Origin, check.Ticket.Trip.Route.Origin)
	assert.Equal(t, fx.Vendor.ID, check.Ticket.Trip.Bus.VendorId)
	require.NotNil(t, check.Ticket.Seat)
	assert.Equal(t, fx.Seats[0].SeatNumber, check.Ticket.Seat.SeatNumber)

	_, err = ledger.CancelTicket(context.Background(), db, ticket.ID)
	require.NoError(t, err)

	check, err = ledger.VerifyBoardingCode(context.Background(), db, ticket.QrCode)
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Contains(t, check.Reason, constants.TICKET_CANCELLED)

	_, err = ledger.VerifyBoardingCode(context.Background(), db, "BT-000000000000")
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

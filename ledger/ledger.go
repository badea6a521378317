// Package ledger keeps tickets, their seats, the trip seat counter and the
// transaction log consistent. Every exported operation runs in a single
// database transaction.
package ledger

import (
	"bus_portal/constants"
	"bus_portal/domain"
	"bus_portal/model"
	"bus_portal/utils"
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRequest struct {
	TripId         uint
	SeatId         uint
	Channel        string
	UserId         *uint
	VendorId       *uint
	MachineId      *uint
	PassengerName  string
	PassengerPhone string
	PassengerEmail string
	PaymentMethod  string
}

type CancelResult struct {
	Ticket model.Ticket      `json:"ticket"`
	Refund model.Transaction `json:"refund"`
}

type BoardingCheck struct {
	Ticket model.Ticket `json:"ticket"`
	Valid  bool         `json:"valid"`
	Reason string       `json:"reason,omitempty"`
}

type Drift struct {
	TripId uint `json:"tripId"`
	Before int  `json:"before"`
	After  int  `json:"after"`
}

var now = time.Now

// BookSeat issues a ticket for one seat of a trip and records the payment.
func BookSeat(ctx context.Context, db *gorm.DB, req BookingRequest) (*model.Ticket, error) {
	var ticket model.Ticket

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip model.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, req.TripId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "trip", Err: err}
			}
			return err
		}
		if trip.Status != constants.TRIP_SCHEDULED {
			return domain.InvalidStateError{Resource: "trip", Status: trip.Status}
		}
		if !trip.DepartureTime.After(now()) {
			return domain.InvalidStateError{Resource: "trip", Msg: "trip has already departed"}
		}
		if trip.AvailableSeats <= 0 {
			return domain.ConflictError{Resource: "trip", Msg: "sold out"}
		}

		var seat model.Seat
		if err := tx.Where("id = ? AND trip_id = ?", req.SeatId, trip.ID).First(&seat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "seat", Err: err}
			}
			return err
		}
		if seat.Status != constants.SEAT_AVAILABLE {
			return domain.ConflictError{Resource: "seat", Msg: "seat " + seat.SeatNumber + " is already booked"}
		}

		method := req.PaymentMethod
		if method == "" {
			method = constants.PAYMENT_METHOD_CARD
		}
		channel := req.Channel
		if channel == "" {
			channel = constants.CHANNEL_ONLINE
		}
		bookedAt := now()
		ticket = model.Ticket{
			TripId:         trip.ID,
			SeatId:         &seat.ID,
			UserId:         req.UserId,
			VendorId:       req.VendorId,
			MachineId:      req.MachineId,
			Channel:        channel,
			PassengerName:  req.PassengerName,
			PassengerPhone: req.PassengerPhone,
			PassengerEmail: req.PassengerEmail,
			Price:          trip.Price,
			Status:         constants.TICKET_BOOKED,
			PaymentStatus:  constants.PAYMENT_PAID,
			PaymentMethod:  method,
			QrCode:         utils.GenerateBoardingCode(),
			BookedAt:       bookedAt,
		}
		if err := tx.Omit(clause.Associations).Create(&ticket).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Seat{}).
			Where("id = ? AND status = ?", seat.ID, constants.SEAT_AVAILABLE).
			Updates(map[string]any{
				"status":    constants.SEAT_BOOKED,
				"ticket_id": ticket.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError{Resource: "seat", Msg: "seat " + seat.SeatNumber + " is already booked"}
		}

		res = tx.Model(&model.Trip{}).
			Where("id = ? AND available_seats > 0", trip.ID).
			UpdateColumn("available_seats", gorm.Expr("available_seats - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError{Resource: "trip", Msg: "sold out"}
		}

		payment := model.Transaction{
			TicketId:  ticket.ID,
			Type:      constants.TRANSACTION_PAYMENT,
			Status:    constants.TRANSACTION_COMPLETED,
			Amount:    ticket.Price,
			Reference: "PY-" + ticket.QrCode,
			Method:    method,
		}
		if err := tx.Omit(clause.Associations).Create(&payment).Error; err != nil {
			return err
		}

		seat.Status = constants.SEAT_BOOKED
		seat.TicketId = &ticket.ID
		ticket.Seat = &seat
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "could not book seat")
	}
	return &ticket, nil
}

// CancelTicket moves a BOOKED ticket to CANCELLED, frees its seat, gives the
// seat back to the trip counter and appends a completed REFUND transaction.
// A second call on the same ticket fails with InvalidStateError.
func CancelTicket(ctx context.Context, db *gorm.DB, ticketID uint) (*CancelResult, error) {
	var result CancelResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.Ticket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "ticket", Err: err}
			}
			return err
		}
		if ticket.Status != constants.TICKET_BOOKED {
			return domain.InvalidStateError{Resource: "ticket", Status: ticket.Status}
		}

		cancelledAt := now()
		res := tx.Model(&model.Ticket{}).
			Where("id = ? AND status = ?", ticket.ID, constants.TICKET_BOOKED).
			Updates(map[string]any{
				"status":         constants.TICKET_CANCELLED,
				"payment_status": constants.PAYMENT_REFUNDED,
				"cancelled_at":   cancelledAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race against another cancellation
			return domain.InvalidStateError{Resource: "ticket", Status: constants.TICKET_CANCELLED}
		}

		if ticket.SeatId != nil {
			res = tx.Model(&model.Seat{}).
				Where("id = ? AND ticket_id = ?", *ticket.SeatId, ticket.ID).
				Updates(map[string]any{
					"status":    constants.SEAT_AVAILABLE,
					"ticket_id": nil,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				log.Printf("[LEDGER] seat %d was not bound to ticket %d", *ticket.SeatId, ticket.ID)
			}
		}

		if err := tx.Model(&model.Trip{}).
			Where("id = ?", ticket.TripId).
			UpdateColumn("available_seats", gorm.Expr("available_seats + ?", 1)).Error; err != nil {
			return err
		}

		refund := model.Transaction{
			TicketId:  ticket.ID,
			Type:      constants.TRANSACTION_REFUND,
			Status:    constants.TRANSACTION_COMPLETED,
			Amount:    ticket.Price,
			Reference: "RF-" + ticket.QrCode,
			Method:    ticket.PaymentMethod,
		}
		if err := tx.Omit(clause.Associations).Create(&refund).Error; err != nil {
			return err
		}

		ticket.Status = constants.TICKET_CANCELLED
		ticket.PaymentStatus = constants.PAYMENT_REFUNDED
		ticket.CancelledAt = &cancelledAt
		result = CancelResult{Ticket: ticket, Refund: refund}
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "could not cancel ticket")
	}
	return &result, nil
}

// RecountAvailableSeats rewrites the trip counter from the seat table.
func RecountAvailableSeats(ctx context.Context, db *gorm.DB, tripID uint) (Drift, error) {
	drift := Drift{TripId: tripID}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip model.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "trip", Err: err}
			}
			return err
		}
		var bus model.Bus
		if err := tx.First(&bus, trip.BusId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "bus", Err: err}
			}
			return err
		}

		var booked int64
		if err := tx.Model(&model.Seat{}).
			Where("trip_id = ? AND status = ?", trip.ID, constants.SEAT_BOOKED).
			Count(&booked).Error; err != nil {
			return err
		}

		drift.Before = trip.AvailableSeats
		drift.After = bus.TotalSeats - int(booked)
		if drift.Before == drift.After {
			return nil
		}
		return tx.Model(&model.Trip{}).
			Where("id = ?", trip.ID).
			UpdateColumn("available_seats", drift.After).Error
	})
	if err != nil {
		return drift, wrapInternal(err, "could not recount seats")
	}
	return drift, nil
}

// ReconcileScheduledTrips recounts every scheduled trip and returns the ones
// whose counter had drifted.
func ReconcileScheduledTrips(ctx context.Context, db *gorm.DB) ([]Drift, error) {
	var tripIds []uint
	if err := db.WithContext(ctx).Model(&model.Trip{}).
		Where("status = ?", constants.TRIP_SCHEDULED).
		Pluck("id", &tripIds).Error; err != nil {
		return nil, domain.InternalError{Msg: "could not list trips", Err: err}
	}

	drifts := []Drift{}
	for _, id := range tripIds {
		d, err := RecountAvailableSeats(ctx, db, id)
		if err != nil {
			log.Printf("[LEDGER] recount trip %d: %v", id, err)
			continue
		}
		if d.Before != d.After {
			drifts = append(drifts, d)
		}
	}
	return drifts, nil
}

// VerifyBoardingCode looks a ticket up by its boarding code. It never writes.
func VerifyBoardingCode(ctx context.Context, db *gorm.DB, code string) (*BoardingCheck, error) {
	var ticket model.Ticket
	if err := db.WithContext(ctx).
		Preload("Trip").
		Preload("Trip.Route").
		Preload("Trip.Bus").
		Preload("Seat").
		Where("qr_code = ?", code).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError{Resource: "ticket", Err: err}
		}
		return nil, domain.InternalError{Msg: "could not verify ticket", Err: err}
	}

	check := &BoardingCheck{Ticket: ticket, Valid: true}
	switch {
	case ticket.Status != constants.TICKET_BOOKED:
		check.Valid = false
		check.Reason = "ticket is " + ticket.Status
	case ticket.Trip.Status == constants.TRIP_CANCELLED || ticket.Trip.Status == constants.TRIP_COMPLETED:
		check.Valid = false
		check.Reason = "trip is " + ticket.Trip.Status
	}
	return check, nil
}

func wrapInternal(err error, msg string) error {
	if domain.IsNotFound(err) || domain.IsConflict(err) || domain.IsInvalidState(err) || domain.IsValidation(err) {
		return err
	}
	return domain.InternalError{Msg: msg, Err: err}
}

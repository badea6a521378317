package constants

// Trip
const (
	TRIP_SCHEDULED = "SCHEDULED"
	TRIP_DEPARTED  = "DEPARTED"
	TRIP_COMPLETED = "COMPLETED"
	TRIP_CANCELLED = "CANCELLED"
)

// Seat
const (
	SEAT_AVAILABLE = "AVAILABLE"
	SEAT_BOOKED    = "BOOKED"
)

// Ticket
const (
	TICKET_BOOKED    = "BOOKED"
	TICKET_CANCELLED = "CANCELLED"
	TICKET_REFUNDED  = "REFUNDED"
)

// Ticket payment
const (
	PAYMENT_PENDING  = "PENDING"
	PAYMENT_PAID     = "PAID"
	PAYMENT_REFUNDED = "REFUNDED"
)

// Sales channel
const (
	CHANNEL_ONLINE  = "ONLINE"
	CHANNEL_VENDOR  = "VENDOR"
	CHANNEL_MACHINE = "MACHINE"
)

// Transaction
const (
	TRANSACTION_PAYMENT = "PAYMENT"
	TRANSACTION_REFUND  = "REFUND"

	TRANSACTION_PENDING   = "PENDING"
	TRANSACTION_COMPLETED = "COMPLETED"
	TRANSACTION_FAILED    = "FAILED"
)

// Bus
const (
	BUS_ACTIVE      = "ACTIVE"
	BUS_MAINTENANCE = "MAINTENANCE"
)

// Machine
const (
	MACHINE_ONLINE      = "ONLINE"
	MACHINE_OFFLINE     = "OFFLINE"
	MACHINE_MAINTENANCE = "MAINTENANCE"
)

const (
	PAYMENT_METHOD_CASH = "CASH"
	PAYMENT_METHOD_CARD = "CARD"
)

const SEATS_PER_ROW = 4

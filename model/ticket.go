package model

import "time"

type Ticket struct {
	DTO
	TripId         uint       `gorm:"not null;index" json:"tripId"`
	SeatId         *uint      `gorm:"index" json:"seatId"`
	UserId         *uint      `gorm:"index" json:"userId"`
	VendorId       *uint      `gorm:"index" json:"vendorId"`
	MachineId      *uint      `gorm:"index" json:"machineId"`
	Channel        string     `gorm:"not null;default:'ONLINE'" json:"channel"`
	PassengerName  string     `json:"passengerName"`
	PassengerPhone string     `json:"passengerPhone"`
	PassengerEmail string     `json:"passengerEmail"`
	Price          float64    `gorm:"not null" json:"price"`
	Status         string     `gorm:"not null;default:'BOOKED';index" json:"status"`
	PaymentStatus  string     `gorm:"not null;default:'PENDING'" json:"paymentStatus"`
	PaymentMethod  string     `json:"paymentMethod"`
	QrCode         string     `gorm:"size:32;uniqueIndex;not null" json:"qrCode"`
	BookedAt       time.Time  `gorm:"not null" json:"bookedAt"`
	CancelledAt    *time.Time `json:"cancelledAt"`
	Trip           Trip       `gorm:"foreignKey:TripId" json:"trip,omitempty"`
	Seat           *Seat      `gorm:"foreignKey:SeatId" json:"seat,omitempty"`
}

type BookTicketInput struct {
	TripId         uint   `json:"tripId" validate:"required,gt=0"`
	SeatId         uint   `json:"seatId" validate:"required,gt=0"`
	PassengerName  string `json:"passengerName" validate:"required,min=2,max=100"`
	PassengerPhone string `json:"passengerPhone" validate:"omitempty,min=8,max=20"`
	PassengerEmail string `json:"passengerEmail" validate:"omitempty,email"`
	PaymentMethod  string `json:"paymentMethod" validate:"omitempty,oneof=CASH CARD"`
}

type FilterTicketInput struct {
	Pagination
	TripId uint   `query:"tripId"`
	Status string `query:"status"`
}

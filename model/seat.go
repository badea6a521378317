package model

type Seat struct {
	DTO
	TripId     uint   `gorm:"not null;uniqueIndex:idx_trip_seat" json:"tripId"`
	SeatNumber string `gorm:"size:8;not null;uniqueIndex:idx_trip_seat" json:"seatNumber"`
	Status     string `gorm:"not null;default:'AVAILABLE'" json:"status"`
	TicketId   *uint  `gorm:"index" json:"ticketId"`
}

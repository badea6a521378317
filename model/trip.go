package model

import "time"

type Trip struct {
	DTO
	BusId          uint      `gorm:"not null;index" json:"busId"`
	RouteId        uint      `gorm:"not null;index" json:"routeId"`
	DepartureTime  time.Time `gorm:"not null;index" json:"departureTime"`
	ArrivalTime    time.Time `gorm:"not null" json:"arrivalTime"`
	Price          float64   `gorm:"not null" json:"price"`
	AvailableSeats int       `gorm:"not null" json:"availableSeats"`
	Status         string    `gorm:"not null;default:'SCHEDULED';index" json:"status"`
	Bus            Bus       `gorm:"foreignKey:BusId" json:"bus"`
	Route          Route     `gorm:"foreignKey:RouteId" json:"route"`
	Seats          []Seat    `gorm:"foreignKey:TripId" json:"seats,omitempty"`
}

type CreateTripInput struct {
	BusId         uint      `json:"busId" validate:"required,gt=0"`
	RouteId       uint      `json:"routeId" validate:"required,gt=0"`
	DepartureTime time.Time `json:"departureTime" validate:"required"`
	ArrivalTime   time.Time `json:"arrivalTime" validate:"required,gtfield=DepartureTime"`
	Price         float64   `json:"price" validate:"omitempty,gt=0"`
}

type FilterTripInput struct {
	Pagination
	Status  string `query:"status"`
	RouteId uint   `query:"routeId"`
}

type SearchTripInput struct {
	Origin      string `query:"origin"`
	Destination string `query:"destination"`
	Date        string `query:"date"`
}

package helper

import (
	"bus_portal/constants"
	"bus_portal/model"
	"bus_portal/utils"
	"errors"

	"gorm.io/gorm"
)

type SeatView struct {
	Id         uint   `json:"id"`
	SeatNumber string `json:"seatNumber"`
	Row        string `json:"row"`
	Status     string `json:"status"`
}

type SeatMap struct {
	TripId         uint       `json:"tripId"`
	AvailableSeats int        `json:"availableSeats"`
	TotalSeats     int        `json:"totalSeats"`
	Seats          []SeatView `json:"seats"`
}

// GenerateSeats creates the seat rows for a freshly created trip.
func GenerateSeats(tx *gorm.DB, tripId uint, totalSeats int) error {
	seats := make([]model.Seat, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		seats = append(seats, model.Seat{
			TripId:     tripId,
			SeatNumber: utils.SeatLabel(i, constants.SEATS_PER_ROW),
			Status:     constants.SEAT_AVAILABLE,
		})
	}
	if len(seats) == 0 {
		return nil
	}
	return tx.CreateInBatches(&seats, 100).Error
}

func LoadSeatMap(db *gorm.DB, tripId uint) (*SeatMap, error) {
	var trip model.Trip
	if err := db.Preload("Bus").First(&trip, tripId).Error; err != nil {
		return nil, err
	}

	var seats []model.Seat
	if err := db.Where("trip_id = ?", tripId).Order("id asc").Find(&seats).Error; err != nil {
		return nil, err
	}

	seatMap := &SeatMap{
		TripId:         trip.ID,
		AvailableSeats: trip.AvailableSeats,
		TotalSeats:     trip.Bus.TotalSeats,
		Seats:          make([]SeatView, 0, len(seats)),
	}
	for _, s := range seats {
		row := s.SeatNumber
		for i, r := range s.SeatNumber {
			if r >= '0' && r <= '9' {
				row = s.SeatNumber[:i]
				break
			}
		}
		seatMap.Seats = append(seatMap.Seats, SeatView{
			Id:         s.ID,
			SeatNumber: s.SeatNumber,
			Row:        row,
			Status:     s.Status,
		})
	}
	return seatMap, nil
}

func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

package model

type Route struct {
	DTO
	Origin          string  `gorm:"not null;index" json:"origin"`
	Destination     string  `gorm:"not null;index" json:"destination"`
	Slug            string  `gorm:"size:200;uniqueIndex" json:"slug"`
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes int     `json:"durationMinutes"`
	BasePrice       float64 `gorm:"not null" json:"basePrice"`
	IsActive        bool    `gorm:"not null;default:true" json:"isActive"`
}

type CreateRouteInput struct {
	Origin          string  `json:"origin" validate:"required,min=2"`
	Destination     string  `json:"destination" validate:"required,min=2,nefield=Origin"`
	DistanceKm      float64 `json:"distanceKm" validate:"omitempty,gt=0"`
	DurationMinutes int     `json:"durationMinutes" validate:"omitempty,gt=0"`
	BasePrice       float64 `json:"basePrice" validate:"required,gt=0"`
}

type EditRouteInput struct {
	Origin          *string  `json:"origin" validate:"omitempty,min=2"`
	Destination     *string  `json:"destination" validate:"omitempty,min=2"`
	DistanceKm      *float64 `json:"distanceKm" validate:"omitempty,gt=0"`
	DurationMinutes *int     `json:"durationMinutes" validate:"omitempty,gt=0"`
	BasePrice       *float64 `json:"basePrice" validate:"omitempty,gt=0"`
}

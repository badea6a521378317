package model

type Review struct {
	DTO
	UserId  uint   `gorm:"not null;uniqueIndex:idx_review_user_trip" json:"userId"`
	TripId  uint   `gorm:"not null;uniqueIndex:idx_review_user_trip;index" json:"tripId"`
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`
	User    User   `gorm:"foreignKey:UserId" json:"user,omitempty"`
}

type CreateReviewInput struct {
	TripId  uint   `json:"tripId" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type EditReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

package model

type Bus struct {
	DTO
	VendorId    uint   `gorm:"not null;index" json:"vendorId"`
	PlateNumber string `gorm:"size:20;uniqueIndex;not null" json:"plateNumber"`
	Model       string `json:"model"`
	TotalSeats  int    `gorm:"not null" json:"totalSeats"`
	ImageUrl    string `json:"imageUrl"`
	Status      string `gorm:"not null;default:'ACTIVE'" json:"status"`
	Vendor      Vendor `gorm:"foreignKey:VendorId" json:"-"`
}

type CreateBusInput struct {
	PlateNumber string `json:"plateNumber" validate:"required,min=4,max=20"`
	Model       string `json:"model" validate:"omitempty,max=100"`
	TotalSeats  int    `json:"totalSeats" validate:"required,min=1,max=80"`
	ImageUrl    string `json:"imageUrl" validate:"omitempty,url"`
}

type EditBusStatusInput struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE MAINTENANCE"`
}

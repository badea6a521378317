package model

type Vendor struct {
	DTO
	UserId      uint   `gorm:"uniqueIndex;not null" json:"userId"`
	CompanyName string `gorm:"not null" json:"companyName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`
	Buses       []Bus  `gorm:"foreignKey:VendorId" json:"buses,omitempty"`
}

// CreateVendorInput creates the VENDOR login together with the vendor profile.
type CreateVendorInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	CompanyName string `json:"companyName" validate:"required"`
	Phone       string `json:"phone" validate:"omitempty"`
	Address     string `json:"address" validate:"omitempty"`
}

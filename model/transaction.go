package model

// Transaction rows are append-only.
type Transaction struct {
	DTO
	TicketId  uint    `gorm:"not null;index" json:"ticketId"`
	Type      string  `gorm:"not null;index" json:"type"`
	Status    string  `gorm:"not null;default:'PENDING'" json:"status"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Reference string  `gorm:"size:40;index" json:"reference"`
	Method    string  `json:"method"`
	Ticket    Ticket  `gorm:"foreignKey:TicketId" json:"-"`
}

type FilterTransactionInput struct {
	Pagination
	Type   string `query:"type"`
	Status string `query:"status"`
}

package model

import "time"

type Machine struct {
	DTO
	Code            string     `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Location        string     `json:"location"`
	RouteId         uint       `gorm:"index" json:"routeId"`
	Status          string     `gorm:"not null;default:'OFFLINE'" json:"status"`
	IsPublic        bool       `gorm:"not null;default:false" json:"isPublic"`
	LastHeartbeatAt *time.Time `json:"lastHeartbeatAt"`
	Route           Route      `gorm:"foreignKey:RouteId" json:"route"`
}

type CreateMachineInput struct {
	Code     string `json:"code" validate:"required,min=3,max=32"`
	Location string `json:"location" validate:"required"`
	RouteId  uint   `json:"routeId" validate:"required,gt=0"`
	IsPublic bool   `json:"isPublic"`
}

type EditMachineInput struct {
	Location *string `json:"location"`
	RouteId  *uint   `json:"routeId" validate:"omitempty,gt=0"`
	Status   *string `json:"status" validate:"omitempty,oneof=ONLINE OFFLINE MAINTENANCE"`
	IsPublic *bool   `json:"isPublic"`
}

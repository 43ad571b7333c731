package model

import "github.com/google/uuid"

// ServiceCategory groups the services the shop offers (e.g. maintenance,
// repair). Appointments contest slots per category.
type ServiceCategory struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
}

// Service is an individual service type within a category.
type Service struct {
	Base
	CategoryID  uuid.UUID `db:"category_id" json:"category_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
}

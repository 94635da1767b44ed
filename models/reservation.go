package models

import "time"

// ReservationContact is denormalized; it is not a reference to Customer.
type ReservationContact struct {
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber string `gorm:"type:varchar(32);not null" json:"phone_number"`
	Email       string `gorm:"type:varchar(255)" json:"email,omitempty"`
}

type Reservation struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	RestaurantID    uint               `gorm:"not null;index" json:"restaurant_id"`
	Customer        ReservationContact `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	PartySize       int                `gorm:"not null" json:"party_size"`
	ReservationDate time.Time          `gorm:"not null;index" json:"reservation_date"`
	SpecialRequests string             `gorm:"type:text" json:"special_requests"`
	Status          ReservationStatus  `gorm:"type:varchar(20);not null" json:"status"`
	TableID         *uint              `json:"table_id,omitempty"`
	Table           *Table             `gorm:"foreignKey:TableID" json:"table,omitempty"`
	AssignedByID    *uint              `json:"assigned_by_id,omitempty"`
	CreatedByID     uint               `gorm:"not null" json:"created_by_id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// SameDay reports whether t falls on the reservation's calendar day in t's location.
func (r Reservation) SameDay(t time.Time) bool {
	y1, m1, d1 := r.ReservationDate.In(t.Location()).Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

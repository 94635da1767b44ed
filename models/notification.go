package models

import (
	"time"
)

// Notification is a staff-facing message scoped to a restaurant.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	UserID       *uint     `json:"user_id,omitempty"`
	Type         string    `gorm:"type:varchar(30);not null" json:"type"`
	Title        string    `gorm:"type:varchar(100)" json:"title"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	IsRead       bool      `gorm:"not null" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

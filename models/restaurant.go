package models

import "time"

const (
	RestaurantDraft    = "draft"
	RestaurantActive   = "active"
	RestaurantInactive = "inactive"
)

type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Phone       string    `gorm:"type:varchar(32)" json:"phone"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	Status      string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ValidRestaurantStatus(s string) bool {
	return s == RestaurantDraft || s == RestaurantActive || s == RestaurantInactive
}

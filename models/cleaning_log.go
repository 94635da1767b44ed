package models

import (
	"time"
)

type CleaningLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	CleanerID    uint      `gorm:"not null" json:"cleaner_id"`
	Cleaner      *User     `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
	TableID      uint      `gorm:"not null;index" json:"table_id"`
	Table        *Table    `gorm:"foreignKey:TableID" json:"table,omitempty"`
	NextStatus   string    `gorm:"type:varchar(20);not null" json:"next_status"`
	CreatedAt    time.Time `json:"created_at"`
}

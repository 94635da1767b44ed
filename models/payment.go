package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payment transaction for an order
type Payment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	OrderID         uint              `gorm:"not null;index" json:"order_id"`
	Order           *Order            `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string            `gorm:"type:varchar(3);not null" json:"currency"`
	Status          PaymentStatus     `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod   string            `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentIntentID *string           `gorm:"type:varchar(64);uniqueIndex" json:"payment_intent_id,omitempty"`
	ReceiptURL      string            `gorm:"type:varchar(512)" json:"receipt_url,omitempty"`
	Metadata        map[string]string `gorm:"type:text;serializer:json" json:"metadata,omitempty"`
	RecordedByID    *uint             `json:"recorded_by_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodOnline = "online"
)

type Order struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CustomerID          uint            `gorm:"not null;index" json:"customer_id"`
	Customer            *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	RestaurantID        uint            `gorm:"not null;index" json:"restaurant_id"`
	TableID             *uint           `json:"table_id,omitempty"`
	Table               *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Status              OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	IsPaid              bool            `gorm:"not null" json:"is_paid"`
	PaymentMethod       string          `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Reference is the order identifier sent to the card processor.
func (o Order) Reference() string {
	return fmt.Sprintf("ORDER-%d", o.ID)
}

// AllItemsDelivered reports whether every item has reached delivered.
func (o Order) AllItemsDelivered() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != ItemDelivered {
			return false
		}
	}
	return true
}

// OrderItem is a frozen copy of a cart line taken when the order is placed.
type OrderItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderID             uint            `gorm:"not null;index" json:"order_id"`
	ProductID           uint            `gorm:"not null;index" json:"product_id"`
	ProductName         string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	Price               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	SelectedAddons      []SelectedAddon `gorm:"type:text;serializer:json" json:"selected_addons"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
	Status              ItemStatus      `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Subtotal is (unit price + sub-addon prices) x quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	qty := decimal.NewFromInt(int64(i.Quantity))
	return i.Price.Add(AddonsUnitPrice(i.SelectedAddons)).Mul(qty)
}

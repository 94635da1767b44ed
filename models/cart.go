package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CustomerID   uint       `gorm:"not null;uniqueIndex" json:"customer_id"`
	RestaurantID uint       `gorm:"not null" json:"restaurant_id"`
	TableID      *uint      `json:"table_id,omitempty"`
	Items        []CartItem `gorm:"foreignKey:CartID" json:"items"`
	LastUpdated  time.Time  `json:"last_updated"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CartID              uint            `gorm:"not null;index" json:"cart_id"`
	ProductID           uint            `gorm:"not null" json:"product_id"`
	Product             Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	SelectedAddons      []SelectedAddon `gorm:"type:text;serializer:json" json:"selected_addons"`
	SpecialInstructions string          `gorm:"type:text" json:"special_instructions"`
}

// LineTotal is (product price + sub-addon prices) x quantity. Product must be loaded.
func (i CartItem) LineTotal() decimal.Decimal {
	qty := decimal.NewFromInt(int64(i.Quantity))
	return i.Product.Price.Mul(qty).Add(AddonsUnitPrice(i.SelectedAddons).Mul(qty))
}

// Total sums LineTotal over every line.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

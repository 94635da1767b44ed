package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder    int       `gorm:"not null" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   *uint           `gorm:"index" json:"category_id,omitempty"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	Addons       []Addon         `gorm:"many2many:product_addons;" json:"addons,omitempty"`
	Tags         []Tag           `gorm:"many2many:product_tags;" json:"tags,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Tag is a free label such as "Spicy" or "Vegetarian". Names are unique per
// restaurant, compared case-insensitively.
type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedByID  *uint     `json:"created_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Addon is an option group such as "Spice Level".
type Addon struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RestaurantID  uint       `gorm:"not null;index" json:"restaurant_id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	IsMultiSelect bool       `gorm:"not null" json:"is_multi_select"`
	SubAddons     []SubAddon `gorm:"foreignKey:AddonID" json:"sub_addons"`
	CreatedByID   *uint      `json:"created_by_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type SubAddon struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	AddonID uint            `gorm:"not null;index" json:"addon_id"`
	Name    string          `gorm:"type:varchar(100);not null" json:"name"`
	Price   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// FindSubAddon looks up a value of the group by name.
func (a Addon) FindSubAddon(name string) (SubAddon, bool) {
	for _, s := range a.SubAddons {
		if s.Name == name {
			return s, true
		}
	}
	return SubAddon{}, false
}

// SelectedAddon is a frozen copy of an add-on choice, stored on cart lines
// and order items. Later edits to the Addon do not change it.
type SelectedAddon struct {
	AddonID   uint             `json:"addon_id"`
	AddonName string           `json:"addon_name"`
	SubAddon  SubAddonSnapshot `json:"sub_addon"`
}

type SubAddonSnapshot struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AddonsUnitPrice sums the sub-addon prices of one unit.
func AddonsUnitPrice(addons []SelectedAddon) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addons {
		total = total.Add(a.SubAddon.Price)
	}
	return total
}

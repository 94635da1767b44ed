package models

import "time"

// Session is the live association of a customer with a table.
type Session struct {
	RestaurantID   *uint      `json:"restaurant_id,omitempty"`
	TableID        *uint      `json:"table_id,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	Active         bool       `gorm:"not null" json:"active"`
	CurrentOrderID *uint      `json:"current_order_id,omitempty"`
}

type Customer struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PhoneNumber    string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone_number"`
	Name           string     `gorm:"type:varchar(255)" json:"name"`
	IsVerified     bool       `gorm:"not null" json:"is_verified"`
	OTPCode        *string    `gorm:"type:varchar(6)" json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	CurrentSession Session    `gorm:"embedded;embeddedPrefix:session_" json:"current_session"`
	VisitHistory   []Visit    `gorm:"foreignKey:CustomerID" json:"visit_history,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Visit is an append-only record of a table scan.
type Visit struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	RestaurantID uint      `gorm:"not null" json:"restaurant_id"`
	TableID      uint      `gorm:"not null" json:"table_id"`
	VisitDate    time.Time `gorm:"not null" json:"visit_date"`
	CheckedOut   bool      `gorm:"not null" json:"checked_out"`
}

func (c Customer) HasActiveSession() bool {
	return c.CurrentSession.Active && c.CurrentSession.TableID != nil
}

// OTPMatches reports whether code is the pending passcode and still valid at now.
func (c Customer) OTPMatches(code string, now time.Time) bool {
	if c.OTPCode == nil || c.OTPExpiresAt == nil {
		return false
	}
	return *c.OTPCode == code && now.Before(*c.OTPExpiresAt)
}

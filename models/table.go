package models

import "time"

// HolderKind names who owns a table's current status.
type HolderKind string

const (
	HolderNone        HolderKind = ""
	HolderSession     HolderKind = "session"
	HolderReservation HolderKind = "reservation"
)

// Holder identifies the single occupant allowed to release a table. For a
// session the ID is the customer ID, for a reservation the reservation ID.
type Holder struct {
	Kind HolderKind
	ID   uint
}

func SessionHolder(customerID uint) Holder {
	return Holder{Kind: HolderSession, ID: customerID}
}

func ReservationHolder(reservationID uint) Holder {
	return Holder{Kind: HolderReservation, ID: reservationID}
}

type Table struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	RestaurantID     uint        `gorm:"not null;index" json:"restaurant_id"`
	TableNumber      string      `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity         int         `gorm:"not null" json:"capacity"`
	Status           TableStatus `gorm:"type:varchar(20);not null" json:"status"`
	CurrentOccupancy int         `gorm:"not null" json:"current_occupancy"`
	QRCodeIdentifier string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"qr_code_identifier"`
	HolderKind       HolderKind  `gorm:"type:varchar(20)" json:"holder_kind,omitempty"`
	HolderID         *uint       `json:"holder_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// HeldBy reports whether h currently holds the table.
func (t Table) HeldBy(h Holder) bool {
	return t.HolderKind == h.Kind && t.HolderID != nil && *t.HolderID == h.ID
}

// Held reports whether any occupant holds the table.
func (t Table) Held() bool {
	return t.HolderKind != HolderNone && t.HolderID != nil
}

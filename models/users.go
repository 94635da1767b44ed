package models

import "time"

const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FirstName    string      `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string      `gorm:"type:varchar(100)" json:"last_name"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	Role         string      `gorm:"type:varchar(20);not null" json:"role"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ValidRole reports whether role is one of the staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanCreateRole reports whether a user with this role may create a user with role.
func (u User) CanCreateRole(role string) bool {
	switch u.Role {
	case RoleSuperadmin:
		return ValidRole(role)
	case RoleAdmin:
		return role == RoleManager || role == RoleStaff
	case RoleManager:
		return role == RoleStaff
	}
	return false
}

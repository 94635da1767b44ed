package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Restaurant{},
		&User{},
		&Table{},
		&Customer{},
		&Visit{},
		&Category{},
		&Addon{},
		&SubAddon{},
		&Tag{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Reservation{},
		&CleaningLog{},
		&Notification{},
	}
}

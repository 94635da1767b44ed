package services

import "github.com/yeremiapane/dinein-backend/utils"

// Realtime events pushed to staff screens.
const (
	EventOrderPlaced     = "order_placed"
	EventOrderUpdate     = "order_update"
	EventOrderItemUpdate = "order_item_update"
	EventTableUpdate     = "table_update"
	EventPaymentUpdate   = "payment_update"
)

// Notifier delivers an event to every staff client of a restaurant.
type Notifier interface {
	Publish(restaurantID uint, event string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(uint, string, interface{}) {}

type event struct {
	restaurantID uint
	name         string
	data         interface{}
}

// outbox collects events inside a transaction; they are only published once
// the transaction has committed.
type outbox []event

func (o *outbox) add(restaurantID uint, name string, data interface{}) {
	*o = append(*o, event{restaurantID: restaurantID, name: name, data: data})
}

func (o outbox) flush(n Notifier) {
	for _, e := range o {
		n.Publish(e.restaurantID, e.name, e.data)
		utils.InfoLogger.WithFields(map[string]interface{}{
			"restaurant_id": e.restaurantID,
			"event":         e.name,
		}).Debug("event published")
	}
}

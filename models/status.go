package models

// transitions maps a status to the statuses it may move to. Re-applying the
// current status is always allowed and treated as a no-op by callers.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (t transitions[S]) known(s S) bool {
	_, ok := t[s]
	return ok
}

// OrderStatus is the fulfilment status of an order.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
)

// Orders only move forward; completed is reachable from delivered alone.
var orderTransitions = transitions[OrderStatus]{
	OrderPlaced:    {OrderPreparing, OrderReady, OrderDelivered},
	OrderPreparing: {OrderReady, OrderDelivered},
	OrderReady:     {OrderDelivered},
	OrderDelivered: {OrderCompleted},
	OrderCompleted: nil,
}

func (s OrderStatus) Valid() bool { return orderTransitions.known(s) }

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return next.Valid() && orderTransitions.allows(s, next)
}

// ItemStatus is the fulfilment status of a single order item.
type ItemStatus string

const (
	ItemOrdered   ItemStatus = "ordered"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemDelivered ItemStatus = "delivered"
)

var itemTransitions = transitions[ItemStatus]{
	ItemOrdered:   {ItemPreparing, ItemReady, ItemDelivered},
	ItemPreparing: {ItemReady, ItemDelivered},
	ItemReady:     {ItemDelivered},
	ItemDelivered: nil,
}

func (s ItemStatus) Valid() bool { return itemTransitions.known(s) }

func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	return next.Valid() && itemTransitions.allows(s, next)
}

// ReservationStatus tracks a booking from request to its outcome.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no-show"
)

var reservationTransitions = transitions[ReservationStatus]{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled, ReservationNoShow},
	ReservationConfirmed: {ReservationSeated, ReservationCancelled, ReservationNoShow},
	ReservationSeated:    {ReservationCompleted},
	ReservationCompleted: nil,
	ReservationCancelled: nil,
	ReservationNoShow:    nil,
}

func (s ReservationStatus) Valid() bool { return reservationTransitions.known(s) }

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	return next.Valid() && reservationTransitions.allows(s, next)
}

// Closed reports whether the reservation no longer holds any table.
func (s ReservationStatus) Closed() bool {
	return s == ReservationCompleted || s == ReservationCancelled || s == ReservationNoShow
}

// TableStatus is the physical state of a table.
type TableStatus string

const (
	TableAvailable    TableStatus = "Available"
	TableReserved     TableStatus = "Reserved"
	TableOccupied     TableStatus = "Occupied"
	TableCleaning     TableStatus = "Cleaning"
	TableOutOfService TableStatus = "Out of Service"
)

var tableTransitions = transitions[TableStatus]{
	TableAvailable:    {TableReserved, TableOccupied, TableOutOfService},
	TableReserved:     {TableAvailable, TableOccupied, TableOutOfService},
	TableOccupied:     {TableCleaning},
	TableCleaning:     {TableAvailable, TableOutOfService},
	TableOutOfService: {TableAvailable},
}

func (s TableStatus) Valid() bool { return tableTransitions.known(s) }

func (s TableStatus) CanTransitionTo(next TableStatus) bool {
	return next.Valid() && tableTransitions.allows(s, next)
}

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
)

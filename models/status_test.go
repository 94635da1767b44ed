package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderPlaced.CanTransitionTo(OrderPreparing))
	assert.True(t, OrderPlaced.CanTransitionTo(OrderDelivered))
	assert.True(t, OrderDelivered.CanTransitionTo(OrderCompleted))
	assert.True(t, OrderReady.CanTransitionTo(OrderReady), "same status is a no-op")

	assert.False(t, OrderPlaced.CanTransitionTo(OrderCompleted))
	assert.False(t, OrderReady.CanTransitionTo(OrderPreparing))
	assert.False(t, OrderCompleted.CanTransitionTo(OrderPlaced))
	assert.False(t, OrderPlaced.CanTransitionTo(OrderStatus("cooking")))
}

func TestItemStatusTransitions(t *testing.T) {
	assert.True(t, ItemOrdered.CanTransitionTo(ItemDelivered))
	assert.True(t, ItemPreparing.CanTransitionTo(ItemReady))
	assert.False(t, ItemDelivered.CanTransitionTo(ItemReady))
	assert.False(t, ItemStatus("served").Valid())
}

func TestReservationStatusTransitions(t *testing.T) {
	assert.True(t, ReservationPending.CanTransitionTo(ReservationConfirmed))
	assert.True(t, ReservationConfirmed.CanTransitionTo(ReservationSeated))
	assert.True(t, ReservationSeated.CanTransitionTo(ReservationCompleted))
	assert.True(t, ReservationPending.CanTransitionTo(ReservationNoShow))

	assert.False(t, ReservationPending.CanTransitionTo(ReservationSeated))
	assert.False(t, ReservationSeated.CanTransitionTo(ReservationCancelled))
	assert.False(t, ReservationCancelled.CanTransitionTo(ReservationConfirmed))

	assert.True(t, ReservationNoShow.Closed())
	assert.False(t, ReservationSeated.Closed())
}

func TestTableStatusTransitions(t *testing.T) {
	assert.True(t, TableAvailable.CanTransitionTo(TableOccupied))
	assert.True(t, TableReserved.CanTransitionTo(TableAvailable))
	assert.True(t, TableOccupied.CanTransitionTo(TableCleaning))
	assert.True(t, TableCleaning.CanTransitionTo(TableAvailable))
	assert.True(t, TableOutOfService.CanTransitionTo(TableAvailable))

	assert.False(t, TableOccupied.CanTransitionTo(TableAvailable))
	assert.False(t, TableCleaning.CanTransitionTo(TableOccupied))
	assert.False(t, TableOutOfService.CanTransitionTo(TableOccupied))
	assert.False(t, TableStatus("available").Valid())
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, status := range Statuses {
		assert.True(t, status.Valid(), "status %s", status)
	}

	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Pending").Valid())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, status := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady} {
		assert.False(t, status.IsTerminal(), "status %s", status)
	}
}

func TestDeliveryTypeValid(t *testing.T) {
	assert.True(t, DeliveryPickup.Valid())
	assert.True(t, DeliveryDelivery.Valid())
	assert.False(t, DeliveryType("courier").Valid())
	assert.False(t, DeliveryType("").Valid())
}

func TestOrderDeleted(t *testing.T) {
	order := &Order{ID: "o1"}
	assert.False(t, order.Deleted())

	deletedAt := time.Now().UTC()
	order.DeletedAt = &deletedAt
	assert.True(t, order.Deleted())
}

package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, status := range models.AllOrderStatuses {
		parsed, err := models.ParseOrderStatus(string(status))
		assert.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := models.ParseOrderStatus("misplaced")
	assert.Error(t, err)
	_, err = models.ParseOrderStatus("")
	assert.Error(t, err)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, models.StatusDelivered.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.True(t, models.StatusReturned.IsTerminal())

	assert.False(t, models.StatusPending.IsTerminal())
	assert.False(t, models.StatusConfirmed.IsTerminal())
	assert.False(t, models.StatusProcessing.IsTerminal())
	assert.False(t, models.StatusShipped.IsTerminal())
}

func TestOrderStatusTransitions(t *testing.T) {
	// Forward moves, including skips over intermediate steps
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusConfirmed))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusProcessing.CanTransitionTo(models.StatusDelivered))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusDelivered))

	// Side exits
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusDelivered.CanTransitionTo(models.StatusReturned))

	// Never backwards, never returned before delivery
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusDelivered.CanTransitionTo(models.StatusShipped))
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusReturned))
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusShipped))

	// Cancelled and returned admit nothing at all
	for _, target := range models.AllOrderStatuses {
		assert.False(t, models.StatusCancelled.CanTransitionTo(target))
		assert.False(t, models.StatusReturned.CanTransitionTo(target))
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	legal := map[OrderStatus][]OrderStatus{
		OrderStatusCreated:        {OrderStatusReserved, OrderStatusCancelled},
		OrderStatusReserved:       {OrderStatusPaymentPending, OrderStatusCancelled},
		OrderStatusPaymentPending: {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:           {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:        {OrderStatusDelivered},
	}

	for _, from := range AllOrderStatuses {
		for _, to := range AllOrderStatuses {
			expected := false
			for _, allowed := range legal[from] {
				if allowed == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_TerminalStatesNeverMove(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusCancelled, OrderStatusDelivered} {
		assert.True(t, terminal.IsTerminal())
		for _, target := range AllOrderStatuses {
			next, err := terminal.TransitionTo(target)

			require.Error(t, err)
			assert.Equal(t, terminal, next)
		}
	}
}

func TestOrderStatus_TransitionTo(t *testing.T) {
	t.Run("legal", func(t *testing.T) {
		next, err := OrderStatusPaymentPending.TransitionTo(OrderStatusPaid)

		require.NoError(t, err)
		assert.Equal(t, OrderStatusPaid, next)
	})

	t.Run("self transition", func(t *testing.T) {
		_, err := OrderStatusReserved.TransitionTo(OrderStatusReserved)

		var transitionErr *InvalidTransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, OrderStatusReserved, transitionErr.From)
		assert.Equal(t, OrderStatusReserved, transitionErr.To)
	})

	t.Run("skipping a state", func(t *testing.T) {
		_, err := OrderStatusCreated.TransitionTo(OrderStatusPaid)

		assert.True(t, errors.Is(err, errors.ErrConflict))
		assert.EqualError(t, err, "invalid order status transition from CREATED to PAID")
	})
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("LOST")
	assert.ErrorIs(t, err, ErrUnknownOrderStatus)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderLine(t *testing.T) {
	line, err := NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("19.99"), 3)

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("59.97").Equal(line.LineTotal))

	_, err = NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("19.99"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("-1"), 1)
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	shirt, err := NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("20.00"), 2)
	require.NoError(t, err)
	mug, err := NewOrderLine("mug", "Mug", decimal.RequireFromString("7.50"), 1)
	require.NoError(t, err)

	order, err := NewOrder("user-1", []OrderLine{shirt, mug}, "EUR", now)

	require.NoError(t, err)
	assert.Equal(t, OrderStatusCreated, order.Status)
	assert.Equal(t, "user-1", order.OwnerID)
	assert.True(t, decimal.RequireFromString("47.50").Equal(order.Totals.Subtotal))
	assert.True(t, order.Totals.Subtotal.Equal(order.Totals.GrandTotal))
	assert.Equal(t, "EUR", order.Totals.Currency)
	assert.Equal(t, now, order.CreatedAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(order.ID))

	_, err = NewOrder("user-1", nil, "EUR", now)
	assert.ErrorIs(t, err, ErrOrderHasNoLines)
}

func TestOrder_TransitionTo(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	order := &Order{Status: OrderStatusCreated, UpdatedAt: created}

	require.NoError(t, order.TransitionTo(OrderStatusReserved, later))
	assert.Equal(t, OrderStatusReserved, order.Status)
	assert.Equal(t, later, order.UpdatedAt)

	err := order.TransitionTo(OrderStatusDelivered, later.Add(time.Minute))
	assert.Error(t, err)
	assert.Equal(t, OrderStatusReserved, order.Status)
	assert.Equal(t, later, order.UpdatedAt)
}

func TestOrder_CoveredBy(t *testing.T) {
	tshirt, _ := NewOrderLine("tshirt", "T-Shirt", decimal.RequireFromString("19.99"), 5)
	mug, _ := NewOrderLine("mug", "Mug", decimal.RequireFromString("7.50"), 3)
	extraMug, _ := NewOrderLine("mug", "Mug", decimal.RequireFromString("7.50"), 1)
	order, err := NewOrder("user-1", []OrderLine{tshirt, mug, extraMug}, "EUR", time.Now())
	require.NoError(t, err)

	tests := []struct {
		name     string
		reserved map[string]int
		want     bool
	}{
		{name: "Nothing", reserved: nil, want: false},
		{name: "OneLineOnly", reserved: map[string]int{"tshirt": 5}, want: false},
		{name: "ShortOnSummedProduct", reserved: map[string]int{"tshirt": 5, "mug": 3}, want: false},
		{name: "Exact", reserved: map[string]int{"tshirt": 5, "mug": 4}, want: true},
		{name: "Surplus", reserved: map[string]int{"tshirt": 6, "mug": 4, "cap": 1}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, order.CoveredBy(tt.reserved))
		})
	}
}

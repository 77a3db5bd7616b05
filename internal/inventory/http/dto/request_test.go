package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetStockRequest_Validate(t *testing.T) {
	zero, five, negative := 0, 5, -1

	assert.NoError(t, (&SetStockRequest{OnHand: &zero}).Validate())
	assert.NoError(t, (&SetStockRequest{OnHand: &five}).Validate())

	err := (&SetStockRequest{OnHand: &negative}).Validate()
	assert.ErrorContains(t, err, "on_hand")

	err = (&SetStockRequest{}).Validate()
	assert.ErrorContains(t, err, "on_hand")
}

func TestReserveStockRequest_Validate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		req := ReserveStockRequest{ProductID: "tshirt-blue-m", Quantity: 2, CorrelationID: "order-1"}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_ZeroQuantity", func(t *testing.T) {
		req := ReserveStockRequest{ProductID: "tshirt", Quantity: 0, CorrelationID: "order-1"}
		assert.ErrorContains(t, req.Validate(), "quantity")
	})

	t.Run("Error_NegativeQuantity", func(t *testing.T) {
		req := ReserveStockRequest{ProductID: "tshirt", Quantity: -3, CorrelationID: "order-1"}
		assert.ErrorContains(t, req.Validate(), "quantity")
	})

	t.Run("Error_BadProductID", func(t *testing.T) {
		req := ReserveStockRequest{ProductID: "has space", Quantity: 1, CorrelationID: "order-1"}
		assert.ErrorContains(t, req.Validate(), "product_id")
	})

	t.Run("Error_BlankCorrelation", func(t *testing.T) {
		req := ReserveStockRequest{ProductID: "tshirt", Quantity: 1, CorrelationID: "   "}
		assert.ErrorContains(t, req.Validate(), "correlation_id")
	})
}

package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wingedsheep/eco-logique/internal/errors"
)

func TestPaymentFailedError(t *testing.T) {
	orderID := uuid.MustParse("0190c3f4-7d1e-7a4b-9c1d-2e3f4a5b6c7d")

	t.Run("WithoutPayment", func(t *testing.T) {
		err := &PaymentFailedError{OrderID: orderID, Reason: "card declined"}

		assert.ErrorIs(t, err, errors.ErrPaymentRequired)
		assert.Equal(t, "payment failed for order 0190c3f4-7d1e-7a4b-9c1d-2e3f4a5b6c7d: card declined", err.Error())
		assert.Equal(t, map[string]any{
			"order_id": orderID.String(),
			"reason":   "card declined",
		}, err.Details())
	})

	t.Run("WithPayment", func(t *testing.T) {
		paymentID := uuid.Must(uuid.NewV7())
		err := &PaymentFailedError{OrderID: orderID, PaymentID: &paymentID, Reason: "provider unavailable"}

		assert.Equal(t, paymentID.String(), err.Details()["payment_id"])
	})
}

func TestCheckoutErrors(t *testing.T) {
	assert.ErrorIs(t, ErrEmptyCart, errors.ErrInvalidInput)
	assert.ErrorIs(t, ErrOrderCreationFailed, errors.ErrUnavailable)
	assert.ErrorIs(t, ErrOrderNotAwaitingPayment, errors.ErrConflict)
}

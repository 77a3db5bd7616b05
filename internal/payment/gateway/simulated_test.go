package gateway

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/payment/domain"
)

func TestSimulatedGateway_Charge(t *testing.T) {
	g := NewSimulatedGateway()
	req := ChargeRequest{OrderID: uuid.Must(uuid.NewV7()), Amount: decimal.NewFromInt(20), Currency: "EUR"}

	t.Run("Approved", func(t *testing.T) {
		req.PaymentMethod = "tok_visa"
		ref, err := g.Charge(context.Background(), req)

		require.NoError(t, err)
		assert.Contains(t, ref, "ch_")
	})

	t.Run("Declined", func(t *testing.T) {
		req.PaymentMethod = TokenDeclined
		_, err := g.Charge(context.Background(), req)

		var declined *domain.PaymentDeclinedError
		assert.ErrorAs(t, err, &declined)
	})

	t.Run("Unavailable", func(t *testing.T) {
		req.PaymentMethod = TokenUnavailable
		_, err := g.Charge(context.Background(), req)

		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.PaymentMethod = "tok_visa"

		_, err := g.Charge(ctx, req)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

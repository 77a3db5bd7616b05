// Package gateway provides payment provider clients.
package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wingedsheep/eco-logique/internal/payment/domain"
)

// Test tokens recognized by the simulated provider.
const (
	TokenDeclined    = "tok_declined"
	TokenUnavailable = "tok_unavailable"
)

// ChargeRequest is a charge sent to a provider.
type ChargeRequest struct {
	OrderID       uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
}

// SimulatedGateway approves every charge except the test tokens: TokenDeclined is
// declined and TokenUnavailable fails as a transient provider outage.
type SimulatedGateway struct{}

// NewSimulatedGateway creates a SimulatedGateway.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

// Charge returns the provider reference of an approved charge.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.TrimSpace(req.PaymentMethod) {
	case TokenDeclined:
		return "", &domain.PaymentDeclinedError{Reason: "card declined"}
	case TokenUnavailable:
		return "", domain.ErrProviderUnavailable
	}
	return "ch_" + uuid.Must(uuid.NewV7()).String(), nil
}

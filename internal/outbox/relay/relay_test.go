package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/pubsub/mempubsub"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
)

type paymentCompleted struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
}

func (paymentCompleted) EventType() string     { return "test.payment_completed" }
func (paymentCompleted) AggregateType() string { return "payment" }
func (e paymentCompleted) AggregateID() string { return e.PaymentID }

type MockStreamWriter struct {
	mock.Mock
}

func (m *MockStreamWriter) XAdd(ctx context.Context, stream string, fields [][2]string) error {
	args := m.Called(ctx, stream, fields)
	return args.Error(0)
}

func TestRedisStreamRelay_Forward(t *testing.T) {
	writer := &MockStreamWriter{}
	relay := NewRedisStreamRelay(writer, "ecologique:events")

	writer.On("XAdd", mock.Anything, "ecologique:events", [][2]string{
		{"event_type", "test.payment_completed"},
		{"aggregate_type", "payment"},
		{"aggregate_id", "p-1"},
		{"payload", `{"payment_id":"p-1","order_id":"o-1"}`},
	}).Return(nil)

	err := relay.Forward(context.Background(), paymentCompleted{PaymentID: "p-1", OrderID: "o-1"})

	require.NoError(t, err)
	writer.AssertExpectations(t)
	assert.NoError(t, relay.Close(context.Background()))
}

func TestRedisStreamRelay_Forward_Error(t *testing.T) {
	writer := &MockStreamWriter{}
	relay := NewRedisStreamRelay(writer, "events")
	writer.On("XAdd", mock.Anything, "events", mock.Anything).Return(errors.New("connection refused"))

	err := relay.Forward(context.Background(), paymentCompleted{PaymentID: "p-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to relay test.payment_completed to stream events")
}

func TestPubSubRelay_Forward(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	topic := mempubsub.NewTopic()
	sub := mempubsub.NewSubscription(topic, time.Minute)
	defer sub.Shutdown(ctx) //nolint:errcheck

	relay := NewPubSubRelay(topic)
	require.NoError(t, relay.Forward(ctx, paymentCompleted{PaymentID: "p-7", OrderID: "o-7"}))

	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	msg.Ack()

	var body paymentCompleted
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, paymentCompleted{PaymentID: "p-7", OrderID: "o-7"}, body)
	assert.Equal(t, "test.payment_completed", msg.Metadata["event_type"])
	assert.Equal(t, "payment", msg.Metadata["aggregate_type"])
	assert.Equal(t, "p-7", msg.Metadata["aggregate_id"])

	assert.NoError(t, relay.Close(ctx))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		r, err := Open(ctx, DriverNone, "", "")
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("pubsub in memory", func(t *testing.T) {
		r, err := Open(ctx, DriverPubSub, "mem://ecologique-events", "")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.NoError(t, r.Close(ctx))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Open(ctx, "carrier-pigeon", "", "")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

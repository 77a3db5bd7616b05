// Package relay forwards delivered outbox events to external brokers. Relays are
// registered on the event bus as catch-all listeners, so a relay failure fails the
// outbox record and the event is retried like any other listener failure.
package relay

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/rueidis"
	"gocloud.dev/pubsub"

	apperrors "github.com/wingedsheep/eco-logique/internal/errors"
	"github.com/wingedsheep/eco-logique/internal/outbox/domain"

	// Register the in-memory pubsub driver for mem:// topic URLs.
	_ "gocloud.dev/pubsub/mempubsub"
)

// Supported relay drivers.
const (
	DriverNone   = ""
	DriverRedis  = "redis"
	DriverPubSub = "pubsub"
)

// Relay forwards one event. It matches the event bus handler signature.
type Relay interface {
	Forward(ctx context.Context, event domain.Event) error
	Close(ctx context.Context) error
}

// StreamWriter appends fields to a Redis stream.
type StreamWriter interface {
	XAdd(ctx context.Context, stream string, fields [][2]string) error
}

type rueidisStreamWriter struct {
	client rueidis.Client
}

// NewRueidisStreamWriter adapts a rueidis client to StreamWriter.
func NewRueidisStreamWriter(client rueidis.Client) StreamWriter {
	return &rueidisStreamWriter{client: client}
}

func (w *rueidisStreamWriter) XAdd(ctx context.Context, stream string, fields [][2]string) error {
	cmd := w.client.B().Xadd().Key(stream).Id("*").FieldValue()
	for _, field := range fields {
		cmd = cmd.FieldValue(field[0], field[1])
	}
	return w.client.Do(ctx, cmd.Build()).Error()
}

// RedisStreamRelay publishes every event to a Redis stream with XADD.
type RedisStreamRelay struct {
	writer StreamWriter
	stream string
	closer func()
}

// NewRedisStreamRelay creates a RedisStreamRelay writing to stream.
func NewRedisStreamRelay(writer StreamWriter, stream string) *RedisStreamRelay {
	return &RedisStreamRelay{writer: writer, stream: stream}
}

// DialRedisStreamRelay connects to Redis at addr and returns a relay that owns the
// connection.
func DialRedisStreamRelay(addr, stream string) (*RedisStreamRelay, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: strings.Split(addr, ","),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to connect to redis")
	}
	r := NewRedisStreamRelay(NewRueidisStreamWriter(client), stream)
	r.closer = client.Close
	return r, nil
}

// Forward appends the event to the stream.
func (r *RedisStreamRelay) Forward(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrapf(err, "failed to marshal %s", event.EventType())
	}

	fields := [][2]string{
		{"event_type", event.EventType()},
		{"aggregate_type", event.AggregateType()},
		{"aggregate_id", event.AggregateID()},
		{"payload", string(payload)},
	}
	if err := r.writer.XAdd(ctx, r.stream, fields); err != nil {
		return apperrors.Wrapf(err, "failed to relay %s to stream %s", event.EventType(), r.stream)
	}
	return nil
}

// Close releases the underlying connection, if the relay owns one.
func (r *RedisStreamRelay) Close(context.Context) error {
	if r.closer != nil {
		r.closer()
	}
	return nil
}

// PubSubRelay publishes every event to a gocloud.dev pubsub topic.
type PubSubRelay struct {
	topic *pubsub.Topic
}

// NewPubSubRelay creates a PubSubRelay for an opened topic.
func NewPubSubRelay(topic *pubsub.Topic) *PubSubRelay {
	return &PubSubRelay{topic: topic}
}

// OpenPubSubRelay opens the topic at topicURL, e.g. "mem://events".
func OpenPubSubRelay(ctx context.Context, topicURL string) (*PubSubRelay, error) {
	topic, err := pubsub.OpenTopic(ctx, topicURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open pubsub topic")
	}
	return NewPubSubRelay(topic), nil
}

// Forward sends the event as the message body with its tags as metadata.
func (r *PubSubRelay) Forward(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrapf(err, "failed to marshal %s", event.EventType())
	}

	err = r.topic.Send(ctx, &pubsub.Message{
		Body: payload,
		Metadata: map[string]string{
			"event_type":     event.EventType(),
			"aggregate_type": event.AggregateType(),
			"aggregate_id":   event.AggregateID(),
		},
	})
	if err != nil {
		return apperrors.Wrapf(err, "failed to relay %s to pubsub", event.EventType())
	}
	return nil
}

// Close flushes and shuts down the topic.
func (r *PubSubRelay) Close(ctx context.Context) error {
	return r.topic.Shutdown(ctx)
}

// Open builds the relay selected by driver. It returns nil when driver is empty.
func Open(ctx context.Context, driver, url, stream string) (Relay, error) {
	switch driver {
	case DriverNone:
		return nil, nil
	case DriverRedis:
		r, err := DialRedisStreamRelay(url, stream)
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverPubSub:
		r, err := OpenPubSubRelay(ctx, url)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported outbox relay driver %q", driver)
	}
}

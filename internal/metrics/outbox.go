package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Delivery outcomes recorded by the outbox processor.
const (
	OutcomeProcessed = "processed"
	OutcomeRetry     = "retry"
	OutcomeFailed    = "failed"
)

// OutboxMetrics records outbox delivery activity.
type OutboxMetrics interface {
	// RecordDelivery counts one delivery attempt for an event type with its outcome.
	RecordDelivery(ctx context.Context, eventType, outcome string)
	// RecordCycle records how many records a processing cycle claimed and how long it took.
	RecordCycle(ctx context.Context, claimed int, duration time.Duration)
	// RecordCleanup counts processed records removed by the retention job.
	RecordCleanup(ctx context.Context, deleted int64)
}

type outboxMetrics struct {
	deliveries metric.Int64Counter
	claimed    metric.Int64Histogram
	cycle      metric.Float64Histogram
	cleaned    metric.Int64Counter
}

// NewOutboxMetrics creates OutboxMetrics on top of the given meter provider.
func NewOutboxMetrics(meterProvider metric.MeterProvider, namespace string) (OutboxMetrics, error) {
	meter := meterProvider.Meter(namespace)

	deliveries, err := meter.Int64Counter(
		fmt.Sprintf("%s_outbox_deliveries_total", namespace),
		metric.WithDescription("Outbox delivery attempts by event type and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox delivery counter: %w", err)
	}

	claimed, err := meter.Int64Histogram(
		fmt.Sprintf("%s_outbox_batch_size", namespace),
		metric.WithDescription("Number of outbox records claimed per processing cycle"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox batch histogram: %w", err)
	}

	cycle, err := meter.Float64Histogram(
		fmt.Sprintf("%s_outbox_cycle_duration_seconds", namespace),
		metric.WithDescription("Duration of outbox processing cycles in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox cycle histogram: %w", err)
	}

	cleaned, err := meter.Int64Counter(
		fmt.Sprintf("%s_outbox_cleaned_total", namespace),
		metric.WithDescription("Processed outbox records removed by retention cleanup"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox cleanup counter: %w", err)
	}

	return &outboxMetrics{deliveries: deliveries, claimed: claimed, cycle: cycle, cleaned: cleaned}, nil
}

func (o *outboxMetrics) RecordDelivery(ctx context.Context, eventType, outcome string) {
	o.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome),
	))
}

func (o *outboxMetrics) RecordCycle(ctx context.Context, claimed int, duration time.Duration) {
	o.claimed.Record(ctx, int64(claimed))
	o.cycle.Record(ctx, duration.Seconds())
}

func (o *outboxMetrics) RecordCleanup(ctx context.Context, deleted int64) {
	o.cleaned.Add(ctx, deleted)
}

// NoOpOutboxMetrics discards all outbox measurements.
type NoOpOutboxMetrics struct{}

// NewNoOpOutboxMetrics creates a no-op OutboxMetrics implementation.
func NewNoOpOutboxMetrics() OutboxMetrics {
	return &NoOpOutboxMetrics{}
}

// RecordDelivery does nothing.
func (n *NoOpOutboxMetrics) RecordDelivery(ctx context.Context, eventType, outcome string) {}

// RecordCycle does nothing.
func (n *NoOpOutboxMetrics) RecordCycle(ctx context.Context, claimed int, duration time.Duration) {}

// RecordCleanup does nothing.
func (n *NoOpOutboxMetrics) RecordCleanup(ctx context.Context, deleted int64) {}

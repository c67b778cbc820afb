// Package observability holds the catalog's metric instruments.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const MeterName = "catalog"

// Metrics counts mutation outcomes and failed asset cleanups.
type Metrics struct {
	mutationCount   metric.Int64Counter
	cleanupFailures metric.Int64Counter
}

// NewMetrics builds the instruments from mp, or from the global provider when
// mp is nil.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	var err error
	m.mutationCount, err = meter.Int64Counter(
		"catalog.mutation.count",
		metric.WithDescription("Catalog mutations by operation and outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		m.mutationCount, _ = meter.Int64Counter("catalog.mutation.count")
	}

	m.cleanupFailures, err = meter.Int64Counter(
		"catalog.asset.cleanup_failures",
		metric.WithDescription("Image files that could not be removed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		m.cleanupFailures, _ = meter.Int64Counter("catalog.asset.cleanup_failures")
	}

	return m
}

// RecordMutation counts one finished mutation.
func (m *Metrics) RecordMutation(ctx context.Context, operation, outcome string) {
	if m == nil || m.mutationCount == nil {
		return
	}
	m.mutationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// AssetCleanupFailed counts one file left behind by a failed removal.
func (m *Metrics) AssetCleanupFailed(ctx context.Context, op string) {
	if m == nil || m.cleanupFailures == nil {
		return
	}
	m.cleanupFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

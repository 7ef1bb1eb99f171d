// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// metrics holds the session instruments of one Seq.
type metrics struct {
	started   metric.Int64Counter
	active    metric.Int64UpDownCounter
	ended     metric.Int64Counter
	delivered metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	started, err := meter.Int64Counter("agen.session.started",
		metric.WithDescription("Number of traversal sessions started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating agen.session.started counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("agen.session.active",
		metric.WithDescription("Number of sessions not yet disposed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating agen.session.active counter: %w", err)
	}

	ended, err := meter.Int64Counter("agen.generator.ended",
		metric.WithDescription("Generator invocations ended, by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating agen.generator.ended counter: %w", err)
	}

	delivered, err := meter.Int64Counter("agen.item.delivered",
		metric.WithDescription("Items handed to consumers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating agen.item.delivered counter: %w", err)
	}

	return &metrics{
		started:   started,
		active:    active,
		ended:     ended,
		delivered: delivered,
	}, nil
}

// noopMetrics returns instruments that record nothing.
func noopMetrics() *metrics {
	m, _ := newMetrics(noop.NewMeterProvider().Meter(meterName))
	return m
}

func (m *metrics) sessionStarted(ctx context.Context) {
	m.started.Add(ctx, 1)
	m.active.Add(ctx, 1)
}

func (m *metrics) sessionDisposed(ctx context.Context) {
	m.active.Add(ctx, -1)
}

func (m *metrics) generatorEnded(ctx context.Context, status Status) {
	m.ended.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status.String()),
	))
}

func (m *metrics) itemDelivered(ctx context.Context) {
	m.delivered.Add(ctx, 1)
}

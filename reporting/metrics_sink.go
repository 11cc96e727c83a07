/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package reporting

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	entityActionsCounterName = "entitystore.entity.actions"
	pingsCounterName         = "entitystore.pings.total"
	pingRateGaugeName        = "entitystore.pings.rate"
)

// MetricsSink records notifications as OpenTelemetry instruments
type MetricsSink struct {
	entityActions metric.Int64Counter
	pings         metric.Int64Counter
	pingRate      metric.Int64Gauge
}

var _ Sink = (*MetricsSink)(nil)

// NewMetricsSink creates the instruments with the given meter
func NewMetricsSink(meter metric.Meter) (*MetricsSink, error) {
	sink := new(MetricsSink)
	var err error

	if sink.entityActions, err = meter.Int64Counter(
		entityActionsCounterName,
		metric.WithDescription("The total number of entity lifecycle actions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create entity actions instrument, %v", err)
	}

	if sink.pings, err = meter.Int64Counter(
		pingsCounterName,
		metric.WithDescription("The total number of pings acknowledged by the statistics aggregator"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pings instrument, %v", err)
	}

	if sink.pingRate, err = meter.Int64Gauge(
		pingRateGaugeName,
		metric.WithDescription("The statistics aggregator ping rate"),
		metric.WithUnit("{ping}/s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create ping rate instrument, %v", err)
	}

	return sink, nil
}

// ReportEntityAction increments the entity actions counter
func (x *MetricsSink) ReportEntityAction(ctx context.Context, action *EntityAction) error {
	x.entityActions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action.Action)))
	return nil
}

// ReportStatistics increments the pings counter and records the rate
func (x *MetricsSink) ReportStatistics(ctx context.Context, stats *SingletonStatistics) error {
	origin := metric.WithAttributes(attribute.String("origin", stats.OriginID))
	x.pings.Add(ctx, 1, origin)
	x.pingRate.Record(ctx, int64(stats.PingRatePs), origin)
	return nil
}

// Close is a no-op; the meter provider owns the instruments
func (x *MetricsSink) Close() error {
	return nil
}

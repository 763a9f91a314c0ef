package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// orderBookMetrics holds the singleton instance
	orderBookMetrics *OrderBookMetrics
)

// OrderBookMetrics holds metrics for order book operations
type OrderBookMetrics struct {
	ordersAddedTotal    metric.Int64Counter
	ordersCanceledTotal metric.Int64Counter
	tradesTotal         metric.Int64Counter
}

// GetOrderBookMetrics returns the OrderBookMetrics singleton
func GetOrderBookMetrics() *OrderBookMetrics {
	if orderBookMetrics == nil {
		meter := otel.GetMeterProvider().Meter(instrumentationName)

		ordersAddedTotal, err := meter.Int64Counter(
			"orderbook.orders_added.total",
			metric.WithDescription("Total number of orders added to the book"),
			metric.WithUnit("{order}"),
		)
		if err != nil {
			return &OrderBookMetrics{}
		}

		ordersCanceledTotal, err := meter.Int64Counter(
			"orderbook.orders_canceled.total",
			metric.WithDescription("Total number of orders canceled"),
			metric.WithUnit("{order}"),
		)
		if err != nil {
			return &OrderBookMetrics{}
		}

		tradesTotal, err := meter.Int64Counter(
			"orderbook.trades.total",
			metric.WithDescription("Total number of trades produced by matching"),
			metric.WithUnit("{trade}"),
		)
		if err != nil {
			return &OrderBookMetrics{}
		}

		orderBookMetrics = &OrderBookMetrics{
			ordersAddedTotal:    ordersAddedTotal,
			ordersCanceledTotal: ordersCanceledTotal,
			tradesTotal:         tradesTotal,
		}
	}

	return orderBookMetrics
}

// RecordOrderAdded increments the added orders counter
func (m *OrderBookMetrics) RecordOrderAdded(ctx context.Context, side string) {
	if m.ordersAddedTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("order.side", side),
	}
	m.ordersAddedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOrderCanceled increments the canceled orders counter
func (m *OrderBookMetrics) RecordOrderCanceled(ctx context.Context, side string) {
	if m.ordersCanceledTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("order.side", side),
	}
	m.ordersCanceledTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTrades adds to the trade counter after a matching pass
func (m *OrderBookMetrics) RecordTrades(ctx context.Context, count int64) {
	if m.tradesTotal == nil {
		return
	}

	m.tradesTotal.Add(ctx, count)
}

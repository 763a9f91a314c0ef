package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Span names
	SpanAddOrder      = "add_order"
	SpanCancelOrder   = "cancel_order"
	SpanMatch         = "match_orders"
	SpanPublishTrades = "publish_trades"

	// Attribute keys
	AttributeOrderID    = "order.id"
	AttributeOrderSide  = "order.side"
	AttributeOrderPrice = "order.price"
	AttributeOrderSize  = "order.size"
	AttributeSecurity   = "book.security"
	AttributeTradeCount = "trade.count"
)

// StartOrderSpan starts a new span for an order book operation. When no
// tracer provider has been configured it falls back to the global noop
// tracer, so the returned span is always safe to End.
func StartOrderSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetMatchingEngineTracer()
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddAttributes adds attributes to a span
func AddAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}

// SetStatus records the outcome of the traced operation
func SetStatus(span trace.Span, code codes.Code, description string) {
	if span == nil {
		return
	}
	span.SetStatus(code, description)
}

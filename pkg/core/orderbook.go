package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/erain9/matchbook/pkg/db/queue"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/otel"
	"github.com/nikolaydubina/fpdecimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// OrderBook implements the price-time-priority book for one security. All
// mutating calls must come from a single writer; the backend guards its own
// state so that read-only snapshot queries never observe a torn mutation.
type OrderBook struct {
	backend  OrderBookBackend
	security string
	lastID   OrderID
	sender   messaging.MessageSender
}

// NewOrderBook creates an OrderBook scoped to one security with a backend
func NewOrderBook(backend OrderBookBackend, security string) *OrderBook {
	return &OrderBook{
		backend:  backend,
		security: security,
	}
}

// SetMessageSender overrides the pooled Kafka sender used to publish
// trades. Useful for tests and for deployments on the kafka-go writer.
func (ob *OrderBook) SetMessageSender(sender messaging.MessageSender) {
	ob.sender = sender
}

// Security returns the security this book is scoped to
func (ob *OrderBook) Security() string {
	return ob.security
}

// GetOrder returns the resting Order by id, or nil when unknown
func (ob *OrderBook) GetOrder(id OrderID) *Order {
	return ob.backend.GetOrder(id)
}

// AddOrder places a validated order into the book and returns its freshly
// minted OrderID. Adding never matches; crossing liquidity rests until the
// next explicit Match call.
func (ob *OrderBook) AddOrder(ctx context.Context, order *Order) (OrderID, error) {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanAddOrder,
		attribute.String(otel.AttributeOrderSide, order.Side().String()),
		attribute.String(otel.AttributeOrderPrice, order.Price().String()),
		attribute.String(otel.AttributeOrderSize, order.Size().String()),
		attribute.String(otel.AttributeSecurity, order.Security()),
	)
	defer span.End()

	if order.Security() != ob.security {
		otel.SetStatus(span, codes.Error, "order is for a different security")
		return 0, ErrWrongSecurity
	}

	ob.lastID++
	id := ob.lastID

	if err := ob.backend.StoreOrder(id, order); err != nil {
		otel.SetStatus(span, codes.Error, "failed to store order")
		return 0, fmt.Errorf("error storing order: %w", err)
	}

	ob.backend.AppendToSide(order.Side(), id, order)

	otel.AddAttributes(span, attribute.Int64(otel.AttributeOrderID, int64(id)))
	otel.SetStatus(span, codes.Ok, "order added")
	otel.GetOrderBookMetrics().RecordOrderAdded(ctx, order.Side().String())

	return id, nil
}

// CancelOrder removes the order with the given id from the book and returns
// its snapshot at cancellation time. An id that never existed, was already
// cancelled, or was fully filled yields ErrOrderNotFound and leaves the book
// untouched, so a double cancel always fails.
func (ob *OrderBook) CancelOrder(ctx context.Context, id OrderID) (*Order, error) {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanCancelOrder,
		attribute.Int64(otel.AttributeOrderID, int64(id)),
	)
	defer span.End()

	order := ob.backend.GetOrder(id)
	if order == nil {
		otel.SetStatus(span, codes.Error, "order not found")
		return nil, ErrOrderNotFound
	}

	ob.backend.RemoveFromSide(order.Side(), id)
	ob.backend.DeleteOrder(id)

	otel.SetStatus(span, codes.Ok, "order cancelled")
	otel.GetOrderBookMetrics().RecordOrderCanceled(ctx, order.Side().String())

	return order, nil
}

// Match executes every available cross and returns the trades in execution
// order. While the best bid price is at least the best ask price, the
// resting order (the earlier orderTime, with OrderID breaking ties) sets
// the trade price and min(bid, ask) sets the quantity. Fully filled orders
// leave the book and their ids become invalid; partial fills keep their
// position. When no cross exists the result is empty, so a second Match
// with no intervening adds is a no-op.
func (ob *OrderBook) Match(ctx context.Context) []Trade {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanMatch,
		attribute.String(otel.AttributeSecurity, ob.security),
	)
	defer span.End()

	var trades []Trade

	for {
		bidID, bid, ok := ob.backend.BestOrder(Buy)
		if !ok {
			break
		}

		askID, ask, ok := ob.backend.BestOrder(Sell)
		if !ok {
			break
		}

		if bid.Price().LessThan(ask.Price()) {
			break
		}

		// The resting order arrived first and sets the price. Ids are
		// insertion-ordered, which resolves equal order times.
		price := bid.Price()
		tradeTime := bid.OrderTime()
		if ask.OrderTime() < bid.OrderTime() ||
			(ask.OrderTime() == bid.OrderTime() && askID < bidID) {
			price = ask.Price()
		} else {
			tradeTime = ask.OrderTime()
		}

		qty := min(bid.Size(), ask.Size())
		bid.DecreaseSize(qty)
		ask.DecreaseSize(qty)

		trades = append(trades, Trade{
			Price:       price,
			Quantity:    qty,
			BuyOrderID:  bidID,
			SellOrderID: askID,
			Time:        tradeTime,
		})

		ob.settle(Buy, bidID, bid)
		ob.settle(Sell, askID, ask)
	}

	otel.AddAttributes(span, attribute.Int(otel.AttributeTradeCount, len(trades)))
	otel.SetStatus(span, codes.Ok, "matching complete")

	if len(trades) > 0 {
		otel.GetOrderBookMetrics().RecordTrades(ctx, int64(len(trades)))
		ob.publishTrades(ctx, trades)
	}

	return trades
}

// settle removes a fully filled order from the book or persists its reduced
// size when liquidity remains.
func (ob *OrderBook) settle(side Side, id OrderID, order *Order) {
	if order.IsFilled() {
		ob.backend.RemoveFromSide(side, id)
		ob.backend.DeleteOrder(id)
		return
	}

	ob.backend.UpdateOrder(id, order)
}

// BestBid returns the highest resting bid price, if any
func (ob *OrderBook) BestBid() (fpdecimal.Decimal, bool) {
	_, order, ok := ob.backend.BestOrder(Buy)
	if !ok {
		return fpdecimal.Zero, false
	}
	return order.Price(), true
}

// BestAsk returns the lowest resting ask price, if any
func (ob *OrderBook) BestAsk() (fpdecimal.Decimal, bool) {
	_, order, ok := ob.backend.BestOrder(Sell)
	if !ok {
		return fpdecimal.Zero, false
	}
	return order.Price(), true
}

// Depth returns up to levels aggregated price levels for a side, best first.
// A non-positive levels returns the whole side.
func (ob *OrderBook) Depth(side Side, levels int) []Level {
	return ob.backend.Depth(side, levels)
}

// Len returns the number of resting orders on a side
func (ob *OrderBook) Len(side Side) int {
	return ob.backend.Len(side)
}

// String implements fmt.Stringer interface
func (ob *OrderBook) String() string {
	builder := strings.Builder{}

	builder.WriteString("Ask:")
	for _, level := range ob.backend.Depth(Sell, 0) {
		builder.WriteString(fmt.Sprintf("\n%s -> size: %s, orders: %d",
			level.Price.String(), level.Size.String(), level.Orders))
	}
	builder.WriteString("\n")

	builder.WriteString("Bid:")
	for _, level := range ob.backend.Depth(Buy, 0) {
		builder.WriteString(fmt.Sprintf("\n%s -> size: %s, orders: %d",
			level.Price.String(), level.Size.String(), level.Orders))
	}
	builder.WriteString("\n")

	return builder.String()
}

// min returns the minimum of two decimals
func min(a, b fpdecimal.Decimal) fpdecimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// publishTrades hands executed trades to the reporting queue.
func (ob *OrderBook) publishTrades(ctx context.Context, trades []Trade) {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanPublishTrades,
		attribute.Int(otel.AttributeTradeCount, len(trades)),
	)
	defer span.End()

	msg := &messaging.TradeMessage{
		Security: ob.security,
		Trades:   convertTrades(trades),
	}

	send := queue.SendMessage
	if ob.sender != nil {
		send = ob.sender.SendTradeMessage
	}

	if err := send(ctx, msg); err != nil {
		otel.SetStatus(span, codes.Error, fmt.Sprintf("failed to send trade message: %v", err))
		return
	}

	otel.SetStatus(span, codes.Ok, "trade message sent")
}

package core

import (
	"encoding/json"
	"strings"

	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/nikolaydubina/fpdecimal"
)

// OrderID uniquely identifies a resting order. IDs are minted by the book
// engine, strictly increasing, and never reused after removal, so a stale
// id can only ever fail with ErrOrderNotFound.
type OrderID uint64

// OrderKey is the (price, time) composite that ranks resting orders within
// one side. It is an ordering key, not an identity: two orders may share a
// key, in which case the backend breaks the tie by insertion sequence.
type OrderKey struct {
	Price fpdecimal.Decimal
	Time  int64
}

// Outranks reports whether k takes priority over other on the given side:
// better price first (highest bid, lowest ask), then earlier time. Equal
// keys outrank nothing; the caller falls back to insertion order.
func (k OrderKey) Outranks(other OrderKey, side Side) bool {
	if !k.Price.Equal(other.Price) {
		if side == Buy {
			return k.Price.GreaterThan(other.Price)
		}
		return k.Price.LessThan(other.Price)
	}
	return k.Time < other.Time
}

// Trade records one execution between a resting order and the order that
// crossed it. Price is the resting order's price; Time is the later of the
// two order times.
type Trade struct {
	Price       fpdecimal.Decimal
	Quantity    fpdecimal.Decimal
	BuyOrderID  OrderID
	SellOrderID OrderID
	Time        int64
}

// MarshalJSON implements Marshaler interface
func (t *Trade) MarshalJSON() ([]byte, error) {
	customStruct := struct {
		Price       string  `json:"price"`
		Quantity    string  `json:"quantity"`
		BuyOrderID  OrderID `json:"buyOrderID"`
		SellOrderID OrderID `json:"sellOrderID"`
		Time        int64   `json:"time"`
	}{
		Price:       t.Price.String(),
		Quantity:    t.Quantity.String(),
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Time:        t.Time,
	}
	return json.Marshal(customStruct)
}

// Level is one aggregated price level of a depth snapshot.
type Level struct {
	Price  fpdecimal.Decimal
	Size   fpdecimal.Decimal
	Orders int
}

// formatDecimal renders a decimal with at least 3 decimal places so that
// downstream consumers see a consistent quantity/price format.
func formatDecimal(d fpdecimal.Decimal) string {
	val := d.String()
	parts := strings.Split(val, ".")
	if len(parts) == 1 {
		return val + ".000"
	} else if len(parts[1]) < 3 {
		return val + strings.Repeat("0", 3-len(parts[1]))
	}
	return val
}

// convertTrades maps executed trades into the messaging layer's wire shape.
func convertTrades(trades []Trade) []messaging.Trade {
	converted := make([]messaging.Trade, len(trades))
	for i, trade := range trades {
		converted[i] = messaging.Trade{
			BuyOrderID:  uint64(trade.BuyOrderID),
			SellOrderID: uint64(trade.SellOrderID),
			Price:       formatDecimal(trade.Price),
			Quantity:    formatDecimal(trade.Quantity),
			Time:        trade.Time,
		}
	}
	return converted
}

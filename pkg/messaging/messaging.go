package messaging

import "context"

// MessageSender defines an interface for sending trade messages
// This helps decouple the core package from specific implementations
// like Kafka in the queue package
type MessageSender interface {
	SendTradeMessage(ctx context.Context, msg *TradeMessage) error
	Close() error
}

// TradeMessage carries the trades produced by one matching pass. It is the
// hand-off point to the external execution/reporting collaborator.
type TradeMessage struct {
	Security string  `json:"security"`
	Trades   []Trade `json:"trades"`
}

// Trade represents a single trade execution
type Trade struct {
	BuyOrderID  uint64 `json:"buyOrderID"`
	SellOrderID uint64 `json:"sellOrderID"`
	Price       string `json:"price"`
	Quantity    string `json:"quantity"`
	Time        int64  `json:"time"`
}

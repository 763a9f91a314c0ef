package core

// OrderBookBackend defines the interface for different backend implementations.
// A backend keys everything by the engine-minted OrderID and keeps each side
// ranked by OrderKey priority with insertion order breaking ties. Every
// operation is expected to run in better-than-linear time in the number of
// resting orders.
type OrderBookBackend interface {
	// Order store operations
	GetOrder(id OrderID) *Order
	StoreOrder(id OrderID, order *Order) error
	UpdateOrder(id OrderID, order *Order) error
	DeleteOrder(id OrderID)

	// Side operations
	AppendToSide(side Side, id OrderID, order *Order)
	RemoveFromSide(side Side, id OrderID) bool

	// BestOrder returns the highest-priority resting order on a side
	BestOrder(side Side) (OrderID, *Order, bool)

	// Read-only snapshot queries
	Depth(side Side, levels int) []Level
	Len(side Side) int
}

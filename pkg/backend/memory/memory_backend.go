package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/erain9/matchbook/pkg/core"
)

// bookEntry is a resting order as it sits in a side tree. The key is
// captured when the order is appended so tree lookups stay stable while
// the order itself shrinks through partial fills.
type bookEntry struct {
	id    core.OrderID
	side  core.Side
	key   core.OrderKey
	order *core.Order
}

func newSideTree(side core.Side) *btree.BTreeG[*bookEntry] {
	return btree.NewBTreeG(func(a, b *bookEntry) bool {
		if a.key.Outranks(b.key, side) {
			return true
		}
		if b.key.Outranks(a.key, side) {
			return false
		}
		// Same price and time: the order accepted first goes first
		return a.id < b.id
	})
}

// MemoryBackend implements OrderBookBackend with in-memory storage. Each
// side is a B-tree ordered by price-time priority, so the best order is
// always the tree minimum, plus an ID index for constant-time cancels.
type MemoryBackend struct {
	sync.RWMutex
	orders  map[core.OrderID]*core.Order
	entries map[core.OrderID]*bookEntry
	bids    *btree.BTreeG[*bookEntry]
	asks    *btree.BTreeG[*bookEntry]
}

// NewMemoryBackend creates new instance of MemoryBackend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		orders:  make(map[core.OrderID]*core.Order),
		entries: make(map[core.OrderID]*bookEntry),
		bids:    newSideTree(core.Buy),
		asks:    newSideTree(core.Sell),
	}
}

func (b *MemoryBackend) tree(side core.Side) *btree.BTreeG[*bookEntry] {
	if side == core.Buy {
		return b.bids
	}
	return b.asks
}

// GetOrder retrieves an order by ID
func (b *MemoryBackend) GetOrder(id core.OrderID) *core.Order {
	b.RLock()
	defer b.RUnlock()
	return b.orders[id]
}

// StoreOrder stores an order
func (b *MemoryBackend) StoreOrder(id core.OrderID, order *core.Order) error {
	b.Lock()
	defer b.Unlock()

	if _, exists := b.orders[id]; exists {
		return core.ErrOrderExists
	}

	b.orders[id] = order
	return nil
}

// UpdateOrder updates an existing order
func (b *MemoryBackend) UpdateOrder(id core.OrderID, order *core.Order) error {
	b.Lock()
	defer b.Unlock()

	if _, exists := b.orders[id]; !exists {
		return core.ErrOrderNotFound
	}

	b.orders[id] = order
	if entry, ok := b.entries[id]; ok {
		entry.order = order
	}
	return nil
}

// DeleteOrder deletes an order
func (b *MemoryBackend) DeleteOrder(id core.OrderID) {
	b.Lock()
	defer b.Unlock()
	delete(b.orders, id)
}

// AppendToSide adds an order to the specified side
func (b *MemoryBackend) AppendToSide(side core.Side, id core.OrderID, order *core.Order) {
	b.Lock()
	defer b.Unlock()

	entry := &bookEntry{
		id:    id,
		side:  side,
		key:   order.Key(),
		order: order,
	}
	b.tree(side).Set(entry)
	b.entries[id] = entry
}

// RemoveFromSide removes an order from the specified side
func (b *MemoryBackend) RemoveFromSide(side core.Side, id core.OrderID) bool {
	b.Lock()
	defer b.Unlock()

	entry, ok := b.entries[id]
	if !ok || entry.side != side {
		return false
	}

	b.tree(side).Delete(entry)
	delete(b.entries, id)
	return true
}

// BestOrder returns the highest-priority order on the side, if any
func (b *MemoryBackend) BestOrder(side core.Side) (core.OrderID, *core.Order, bool) {
	b.RLock()
	defer b.RUnlock()

	entry, ok := b.tree(side).Min()
	if !ok {
		return 0, nil, false
	}
	return entry.id, entry.order, true
}

// Depth aggregates resting orders into price levels, best first. At most
// levels price levels are returned; levels <= 0 means no limit.
func (b *MemoryBackend) Depth(side core.Side, levels int) []core.Level {
	b.RLock()
	defer b.RUnlock()

	var result []core.Level
	b.tree(side).Scan(func(entry *bookEntry) bool {
		price := entry.order.Price()
		if n := len(result); n > 0 && result[n-1].Price.Equal(price) {
			result[n-1].Size = result[n-1].Size.Add(entry.order.Size())
			result[n-1].Orders++
			return true
		}
		if levels > 0 && len(result) == levels {
			return false
		}
		result = append(result, core.Level{
			Price:  price,
			Size:   entry.order.Size(),
			Orders: 1,
		})
		return true
	})
	return result
}

// Len returns the number of resting orders on the side
func (b *MemoryBackend) Len(side core.Side) int {
	b.RLock()
	defer b.RUnlock()
	return b.tree(side).Len()
}

// String implements fmt.Stringer interface
func (b *MemoryBackend) String() string {
	sb := strings.Builder{}

	sb.WriteString("Asks:")
	for _, level := range b.Depth(core.Sell, 0) {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d, size: %s", level.Price.String(), level.Orders, level.Size.String()))
	}
	sb.WriteString("\nBids:")
	for _, level := range b.Depth(core.Buy, 0) {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d, size: %s", level.Price.String(), level.Orders, level.Size.String()))
	}

	return sb.String()
}

var _ core.OrderBookBackend = (*MemoryBackend)(nil)

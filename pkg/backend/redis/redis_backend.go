package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erain9/matchbook/pkg/core"
)

// RedisOptions represents configuration options for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

var defaultOptions = &RedisOptions{
	Addr:     "localhost:6379",
	Password: "",
	DB:       0,
}

// SetDefaultRedisOptions sets the default options for Redis connections
func SetDefaultRedisOptions(options *RedisOptions) {
	defaultOptions = options
}

// GetRedisClient creates a new Redis client using the default options
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     defaultOptions.Addr,
		Password: defaultOptions.Password,
		DB:       defaultOptions.DB,
	})
}

// RedisBackend implements OrderBookBackend with Redis storage. Each side is
// a sorted set scored by price (negated for bids so the best order is always
// rank 0). Members at an equal score sort lexicographically, so the member
// encoding of zero-padded order time and ID preserves time priority within
// a price level.
type RedisBackend struct {
	sync.RWMutex
	client  *redis.Client
	ctx     context.Context
	prefix  string
	bidsKey string
	asksKey string
	logger  *zap.Logger
}

// NewRedisBackend creates a new instance of RedisBackend
func NewRedisBackend(client *redis.Client, prefix string, logger *zap.Logger) *RedisBackend {
	return &RedisBackend{
		client:  client,
		ctx:     context.Background(),
		prefix:  prefix,
		bidsKey: fmt.Sprintf("%s:bids", prefix),
		asksKey: fmt.Sprintf("%s:asks", prefix),
		logger:  logger,
	}
}

// GetOrder retrieves an order from Redis by its ID
func (b *RedisBackend) GetOrder(id core.OrderID) *core.Order {
	b.RLock()
	defer b.RUnlock()

	key := b.getOrderKey(id)
	data, err := b.client.Get(b.ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			b.logger.Error("failed to get order",
				zap.Uint64("order_id", uint64(id)),
				zap.Error(err))
		}
		return nil
	}

	var order core.Order
	if err := json.Unmarshal(data, &order); err != nil {
		b.logger.Error("failed to unmarshal order",
			zap.Uint64("order_id", uint64(id)),
			zap.Error(err))
		return nil
	}

	return &order
}

// StoreOrder stores an order in Redis
func (b *RedisBackend) StoreOrder(id core.OrderID, order *core.Order) error {
	b.Lock()
	defer b.Unlock()

	key := b.getOrderKey(id)
	exists, err := b.client.Exists(b.ctx, key).Result()
	if err != nil {
		return err
	}
	if exists > 0 {
		return core.ErrOrderExists
	}

	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	return b.client.Set(b.ctx, key, data, 0).Err()
}

// UpdateOrder updates an existing order in Redis
func (b *RedisBackend) UpdateOrder(id core.OrderID, order *core.Order) error {
	b.Lock()
	defer b.Unlock()

	key := b.getOrderKey(id)
	exists, err := b.client.Exists(b.ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return core.ErrOrderNotFound
	}

	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	return b.client.Set(b.ctx, key, data, 0).Err()
}

// DeleteOrder deletes an order from Redis
func (b *RedisBackend) DeleteOrder(id core.OrderID) {
	b.Lock()
	defer b.Unlock()

	if err := b.client.Del(b.ctx, b.getOrderKey(id)).Err(); err != nil {
		b.logger.Error("failed to delete order",
			zap.Uint64("order_id", uint64(id)),
			zap.Error(err))
	}
}

// AppendToSide adds an order to the specified side of the order book
func (b *RedisBackend) AppendToSide(side core.Side, id core.OrderID, order *core.Order) {
	b.Lock()
	defer b.Unlock()

	err := b.client.ZAdd(b.ctx, b.getSideKey(side), redis.Z{
		Score:  b.score(side, order),
		Member: sideMember(order.OrderTime(), id),
	}).Err()
	if err != nil {
		b.logger.Error("failed to append order to side",
			zap.Uint64("order_id", uint64(id)),
			zap.String("side", side.String()),
			zap.Error(err))
	}
}

// RemoveFromSide removes an order from the specified side of the order book
func (b *RedisBackend) RemoveFromSide(side core.Side, id core.OrderID) bool {
	order := b.GetOrder(id)
	if order == nil {
		return false
	}

	b.Lock()
	defer b.Unlock()

	removed, err := b.client.ZRem(b.ctx, b.getSideKey(side), sideMember(order.OrderTime(), id)).Result()
	if err != nil {
		b.logger.Error("failed to remove order from side",
			zap.Uint64("order_id", uint64(id)),
			zap.String("side", side.String()),
			zap.Error(err))
		return false
	}

	return removed > 0
}

// BestOrder returns the highest-priority order on the side, if any
func (b *RedisBackend) BestOrder(side core.Side) (core.OrderID, *core.Order, bool) {
	b.RLock()
	members, err := b.client.ZRange(b.ctx, b.getSideKey(side), 0, 0).Result()
	b.RUnlock()
	if err != nil {
		b.logger.Error("failed to fetch best order",
			zap.String("side", side.String()),
			zap.Error(err))
		return 0, nil, false
	}
	if len(members) == 0 {
		return 0, nil, false
	}

	id, err := memberOrderID(members[0])
	if err != nil {
		b.logger.Error("malformed side member",
			zap.String("member", members[0]),
			zap.Error(err))
		return 0, nil, false
	}

	order := b.GetOrder(id)
	if order == nil {
		return 0, nil, false
	}
	return id, order, true
}

// Depth aggregates resting orders into price levels, best first. At most
// levels price levels are returned; levels <= 0 means no limit.
func (b *RedisBackend) Depth(side core.Side, levels int) []core.Level {
	b.RLock()
	members, err := b.client.ZRange(b.ctx, b.getSideKey(side), 0, -1).Result()
	b.RUnlock()
	if err != nil {
		b.logger.Error("failed to fetch side for depth",
			zap.String("side", side.String()),
			zap.Error(err))
		return nil
	}

	var result []core.Level
	for _, member := range members {
		id, err := memberOrderID(member)
		if err != nil {
			continue
		}
		order := b.GetOrder(id)
		if order == nil {
			continue
		}

		price := order.Price()
		if n := len(result); n > 0 && result[n-1].Price.Equal(price) {
			result[n-1].Size = result[n-1].Size.Add(order.Size())
			result[n-1].Orders++
			continue
		}
		if levels > 0 && len(result) == levels {
			break
		}
		result = append(result, core.Level{
			Price:  price,
			Size:   order.Size(),
			Orders: 1,
		})
	}
	return result
}

// Len returns the number of resting orders on the side
func (b *RedisBackend) Len(side core.Side) int {
	b.RLock()
	defer b.RUnlock()

	count, err := b.client.ZCard(b.ctx, b.getSideKey(side)).Result()
	if err != nil {
		b.logger.Error("failed to count side",
			zap.String("side", side.String()),
			zap.Error(err))
		return 0
	}
	return int(count)
}

// sideMember encodes (order time, id) so that lexicographic comparison of
// members with an equal score yields time priority, earliest first
func sideMember(orderTime int64, id core.OrderID) string {
	return fmt.Sprintf("%020d:%020d", orderTime, id)
}

// memberOrderID recovers the order ID from a side member
func memberOrderID(member string) (core.OrderID, error) {
	_, idPart, ok := strings.Cut(member, ":")
	if !ok {
		return 0, fmt.Errorf("malformed member %q", member)
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return 0, err
	}
	return core.OrderID(id), nil
}

// score maps a price to a sorted-set score. Bid scores are negated so that
// rank 0 is the highest bid while rank 0 of the ask set is the lowest ask.
func (b *RedisBackend) score(side core.Side, order *core.Order) float64 {
	price := order.Price().Float64()
	if side == core.Buy {
		return -price
	}
	return price
}

func (b *RedisBackend) getSideKey(side core.Side) string {
	if side == core.Buy {
		return b.bidsKey
	}
	return b.asksKey
}

func (b *RedisBackend) getOrderKey(id core.OrderID) string {
	return fmt.Sprintf("%s:order:%d", b.prefix, id)
}

// Close closes the Redis client and cleans up resources
func (b *RedisBackend) Close() error {
	b.Lock()
	defer b.Unlock()
	return b.client.Close()
}

// WithContext returns a new RedisBackend with the given context. The clone
// shares the client and keys but carries its own mutex; like the original it
// expects a single writer.
func (b *RedisBackend) WithContext(ctx context.Context) *RedisBackend {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RedisBackend{
		client:  b.client,
		ctx:     ctx,
		prefix:  b.prefix,
		bidsKey: b.bidsKey,
		asksKey: b.asksKey,
		logger:  b.logger,
	}
}

var _ core.OrderBookBackend = (*RedisBackend)(nil)

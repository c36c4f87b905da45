package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxStoredAlerts caps the Redis list so it cannot grow without bound.
const maxStoredAlerts = 1000

// LowStockAlert is emitted after a committed stock_out leaves a product at or
// below its threshold.
type LowStockAlert struct {
	ProductID     int       `json:"product_id"`
	Name          string    `json:"name"`
	Sku           string    `json:"sku"`
	StockQuantity int       `json:"stock_quantity"`
	Threshold     int       `json:"threshold"`
	TransactionID int       `json:"transaction_id"`
	Time          time.Time `json:"time"`
}

type Publisher interface {
	PublishLowStock(ctx context.Context, alert LowStockAlert) error
}

// RedisPublisher appends alerts as JSON to a Redis list, newest last.
type RedisPublisher struct {
	rdb *redis.Client
	key string
}

func NewRedisPublisher(rdb *redis.Client, key string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, key: key}
}

func (p *RedisPublisher) PublishLowStock(ctx context.Context, alert LowStockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	pipe := p.rdb.TxPipeline()
	pipe.RPush(ctx, p.key, data)
	pipe.LTrim(ctx, p.key, -maxStoredAlerts, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push alert: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest alerts, oldest first.
func (p *RedisPublisher) Recent(ctx context.Context, n int64) ([]LowStockAlert, error) {
	if n <= 0 {
		return []LowStockAlert{}, nil
	}
	items, err := p.rdb.LRange(ctx, p.key, -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}

	out := make([]LowStockAlert, 0, len(items))
	for _, item := range items {
		var a LowStockAlert
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// MemoryPublisher keeps the latest alerts in process. It is used when no
// Redis address is configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	alerts []LowStockAlert
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishLowStock(_ context.Context, alert LowStockAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	if len(p.alerts) > maxStoredAlerts {
		p.alerts = p.alerts[len(p.alerts)-maxStoredAlerts:]
	}
	return nil
}

func (p *MemoryPublisher) Recent(_ context.Context, n int64) ([]LowStockAlert, error) {
	if n <= 0 {
		return []LowStockAlert{}, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	start := max(int64(len(p.alerts))-n, 0)
	out := make([]LowStockAlert, len(p.alerts[start:]))
	copy(out, p.alerts[start:])
	return out, nil
}

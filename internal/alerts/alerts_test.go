package alerts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func newTestPublisher(t *testing.T) *RedisPublisher {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	key := "test:alerts:" + t.Name()
	t.Cleanup(func() { rdb.Del(context.Background(), key) })
	return NewRedisPublisher(rdb, key)
}

func TestRedisPublisher_PublishAndRecent(t *testing.T) {
	p := newTestPublisher(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := p.PublishLowStock(ctx, LowStockAlert{ProductID: i, StockQuantity: i, Threshold: 5, Time: time.Now().UTC()})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	got, err := p.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].ProductID != 2 || got[1].ProductID != 3 {
		t.Errorf("expected products 2 and 3 oldest first, got %d and %d", got[0].ProductID, got[1].ProductID)
	}
}

func TestRedisPublisher_RecentNonPositive(t *testing.T) {
	p := NewRedisPublisher(nil, "unused")
	got, err := p.Recent(context.Background(), 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
}

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	ctx := context.Background()

	for i := 1; i <= maxStoredAlerts+5; i++ {
		if err := p.PublishLowStock(ctx, LowStockAlert{ProductID: i}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	got, _ := p.Recent(ctx, 2)
	if len(got) != 2 || got[0].ProductID != maxStoredAlerts+4 || got[1].ProductID != maxStoredAlerts+5 {
		t.Fatalf("unexpected recent alerts %+v", got)
	}

	all, _ := p.Recent(ctx, 5000)
	if len(all) != maxStoredAlerts || all[0].ProductID != 6 {
		t.Errorf("expected %d alerts starting at product 6, got %d starting at %d", maxStoredAlerts, len(all), all[0].ProductID)
	}

	if none, _ := p.Recent(ctx, 0); len(none) != 0 {
		t.Errorf("expected no alerts, got %d", len(none))
	}
}

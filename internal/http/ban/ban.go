// Package ban counts rate-limit strikes per client in Redis and bans clients
// that collect too many of them. A nil *Guard never bans.
package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	strikesKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix     = "ratelimit:ban:"

	DailyBanLogKey = "ratelimit:banlog:daily"
)

type Guard struct {
	rdb        *redis.Client
	maxStrikes int64
	duration   time.Duration
	logger     *zap.Logger
}

func NewGuard(rdb *redis.Client, maxStrikes int, duration time.Duration, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{rdb: rdb, maxStrikes: int64(maxStrikes), duration: duration, logger: logger}
}

// IsBanned reports whether target is currently banned and for how long.
func (g *Guard) IsBanned(ctx context.Context, target string) (bool, time.Duration, error) {
	if g == nil || g.rdb == nil {
		return false, 0, nil
	}
	ttl, err := g.rdb.TTL(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read ban: %w", err)
	}
	// TTL returns a negative duration for missing keys.
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

// Strike records one violation for target on route. Once the strike count
// reaches the configured maximum within the ban window the target is banned
// and the strikes reset.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	if g == nil || g.rdb == nil {
		return false, nil
	}

	key := strikesKeyPrefix + target
	pipe := g.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record strike: %w", err)
	}

	strikes := incr.Val()
	if strikes < g.maxStrikes {
		return false, nil
	}

	pipe = g.rdb.TxPipeline()
	pipe.Set(ctx, banKeyPrefix+target, strikes, g.duration)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to ban %s: %w", target, err)
	}

	g.logger.Warn("⚠️ client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int64("strikes", strikes),
		zap.Duration("duration", g.duration),
	)
	g.logBanEvent(ctx, target, route, int(strikes))
	return true, nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (g *Guard) logBanEvent(ctx context.Context, target, route string, strikes int) {
	data, _ := json.Marshal(BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now().UTC(),
	})
	if err := g.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		g.logger.Error("❌ failed to log ban event", zap.Error(err))
	}
}

// Summary aggregates the ban log by route and target.
type Summary struct {
	Total    int
	ByRoute  map[string]int
	ByTarget map[string]int
}

// DrainSummary reads and clears the ban log.
func (g *Guard) DrainSummary(ctx context.Context) (Summary, error) {
	s := Summary{ByRoute: map[string]int{}, ByTarget: map[string]int{}}
	if g == nil || g.rdb == nil {
		return s, nil
	}

	pipe := g.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, DailyBanLogKey, 0, -1)
	pipe.Del(ctx, DailyBanLogKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return s, fmt.Errorf("failed to read ban log: %w", err)
	}

	for _, item := range lrange.Val() {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		s.Total++
		s.ByRoute[entry.Route]++
		s.ByTarget[entry.Target]++
	}
	return s, nil
}

// StartDailyBanSummary logs a ban summary every interval until ctx is done.
func (g *Guard) StartDailyBanSummary(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, err := g.DrainSummary(ctx)
			if err != nil {
				g.logger.Error("❌ failed to build ban summary", zap.Error(err))
				continue
			}
			if s.Total == 0 {
				continue
			}
			g.logger.Info("📊 ban summary",
				zap.Int("total", s.Total),
				zap.Any("by_route", s.ByRoute),
				zap.Any("by_target", s.ByTarget),
			)
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Generations hands out a monotonically increasing token per service ID.
// A job whose token is no longer current has been superseded by a later
// request for the same service.
type Generations interface {
	Next(ctx context.Context, serviceID string) (int64, error)
	Current(ctx context.Context, serviceID string) (int64, error)
}

// RedisGenerations shares generation counters across API and worker
// processes.
type RedisGenerations struct {
	redis *redis.Client
}

func NewRedisGenerations(redisClient *redis.Client) *RedisGenerations {
	return &RedisGenerations{redis: redisClient}
}

func (g *RedisGenerations) Next(ctx context.Context, serviceID string) (int64, error) {
	key := generationKey(serviceID)
	n, err := g.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance generation: %w", err)
	}
	g.redis.Expire(ctx, key, jobTTL)
	return n, nil
}

func (g *RedisGenerations) Current(ctx context.Context, serviceID string) (int64, error) {
	n, err := g.redis.Get(ctx, generationKey(serviceID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read generation: %w", err)
	}
	return n, nil
}

func generationKey(serviceID string) string {
	return fmt.Sprintf("generation:%s", serviceID)
}

// MemoryGenerations is an in-process Generations.
type MemoryGenerations struct {
	mu  sync.Mutex
	gen map[string]int64
}

func NewMemoryGenerations() *MemoryGenerations {
	return &MemoryGenerations{gen: make(map[string]int64)}
}

func (g *MemoryGenerations) Next(_ context.Context, serviceID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen[serviceID]++
	return g.gen[serviceID], nil
}

func (g *MemoryGenerations) Current(_ context.Context, serviceID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen[serviceID], nil
}

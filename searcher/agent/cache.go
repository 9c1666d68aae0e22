package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"connect4/game"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// MoveCache remembers answers for positions already searched.
type MoveCache interface {
	Get(ctx context.Context, key string) (MoveResponse, bool, error)
	Set(ctx context.Context, key string, resp MoveResponse) error
}

func cacheKey(board *game.Board, depth int) string {
	return fmt.Sprintf("connect4:move:%d:%s", depth, strings.Join(board.Rows(), "/"))
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and fails if the server does not answer a ping.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (MoveResponse, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return MoveResponse{}, false, nil
	}
	if err != nil {
		return MoveResponse{}, false, err
	}

	var resp MoveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return MoveResponse{}, false, err
	}
	return resp, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, resp MoveResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, cacheTTL).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// MemoryCache is an unbounded in-process cache used when no redis server is
// configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]MoveResponse
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]MoveResponse)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (MoveResponse, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp, ok := m.entries[key]
	return resp, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, resp MoveResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = resp
	return nil
}

package cache

import (
	"context"
	"errors"
	"time"

	"skinviz/logger"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

// Cache keeps rendered responses (result JSON, thumbnails) for a limited time
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New returns a redis backed cache when addr is set and an in-process one otherwise
func New(addr, password string) Cache {
	if addr == "" {
		return NewMemory()
	}
	return NewRedis(addr, password)
}

type entry struct {
	value   []byte
	expires time.Time
}

type Memory struct {
	items cmap.ConcurrentMap[string, entry]
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: cmap.New[entry](), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.items.Remove(key)
		return nil, ErrMiss
	}
	return e.value, nil
}

// Set stores the value, a zero ttl never expires
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.items.Set(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Remove(key)
	return nil
}

// Purge drops expired entries
func (m *Memory) Purge() {
	now := m.now()
	for _, key := range m.items.Keys() {
		m.items.RemoveCb(key, func(_ string, e entry, exists bool) bool {
			return exists && !e.expires.IsZero() && now.After(e.expires)
		})
	}
}

type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error(logger.Fields{"addr": addr, "error": err}, "Failed to connect to Redis")
	} else {
		logger.Info(logger.Fields{"addr": addr}, "Connected to Redis")
	}
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

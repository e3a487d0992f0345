package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// remembers which artifacts were already published, keyed by branch and
// artifact id
type Ledger interface {
	Lookup(ctx context.Context, key string) (reference string, ok bool, err error)
	Record(ctx context.Context, key, reference string) error
}

const defaultLedgerCapacity = 10000

// process-local ledger with FIFO eviction
type MemoryLedger struct {
	mu       sync.Mutex
	refs     map[string]string
	order    []string
	capacity int
}

func NewMemoryLedger(capacity int) *MemoryLedger {
	if capacity <= 0 {
		capacity = defaultLedgerCapacity
	}

	return &MemoryLedger{
		refs:     make(map[string]string),
		capacity: capacity,
	}
}

func (l *MemoryLedger) Lookup(_ context.Context, id string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ref, ok := l.refs[id]
	return ref, ok, nil
}

func (l *MemoryLedger) Record(_ context.Context, id, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.refs[id]; exists {
		l.refs[id] = reference
		return nil
	}

	if len(l.order) >= l.capacity {
		oldest := l.order[0]
		l.order = l.order[1:]
		delete(l.refs, oldest)
	}

	l.refs[id] = reference
	l.order = append(l.order, id)

	return nil
}

const (
	redisKeyPrefix = "forge:artifact:"
	redisLedgerTTL = 30 * 24 * time.Hour
)

// ledger shared across replicas
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(redisURL string) (*RedisLedger, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisLedger{client: redis.NewClient(opts)}, nil
}

// pings the server; called once at startup
func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisLedger) Client() *redis.Client {
	return l.client
}

func (l *RedisLedger) Lookup(ctx context.Context, id string) (string, bool, error) {
	ref, err := l.client.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return ref, true, nil
}

func (l *RedisLedger) Record(ctx context.Context, id, reference string) error {
	return l.client.Set(ctx, redisKeyPrefix+id, reference, redisLedgerTTL).Err()
}

func (l *RedisLedger) Close() error {
	return l.client.Close()
}

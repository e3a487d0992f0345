package publisher

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(2)

	_, ok, err := l.Lookup(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Record(ctx, "a", "commit:1"))
	require.NoError(t, l.Record(ctx, "b", "commit:2"))
	require.NoError(t, l.Record(ctx, "a", "commit:1"))
	require.NoError(t, l.Record(ctx, "c", "commit:3"))

	_, ok, _ = l.Lookup(ctx, "a")
	assert.False(t, ok, "oldest entry is evicted at capacity")

	ref, ok, _ := l.Lookup(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, "commit:3", ref)
}

func TestRedisLedger(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	l, err := NewRedisLedger(redisURL)
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.Ping(ctx))

	id := uuid.NewString()

	_, ok, err := l.Lookup(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Record(ctx, id, "commit:abc123"))

	ref, ok, err := l.Lookup(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "commit:abc123", ref)

	require.NoError(t, l.Client().Del(ctx, redisKeyPrefix+id).Err())
}

func TestNewRedisLedger_InvalidURL(t *testing.T) {
	_, err := NewRedisLedger("not a url")
	assert.Error(t, err)
}

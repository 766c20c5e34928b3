package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return New(client), mr, cleanup
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetAndGet(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	original := payload{Name: "trending", Count: 10}

	err := c.Set(ctx, "test:key", original, time.Minute)
	require.NoError(t, err)

	var got payload
	hit, err := c.Get(ctx, "test:key", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, original, got)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _, cleanup := setupTestCache(t)
	defer cleanup()

	var got payload
	hit, err := c.Get(context.Background(), "missing:key", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Get_CorruptPayload(t *testing.T) {
	c, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, mr.Set("bad:key", "{not json"))

	// 损坏的缓存按未命中处理并被删除
	var got payload
	hit, err := c.Get(ctx, "bad:key", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("bad:key"))
}

func TestCache_Delete(t *testing.T) {
	c, mr, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "del:key", payload{Name: "x"}, time.Minute))

	err := c.Delete(ctx, "del:key")
	require.NoError(t, err)
	assert.False(t, mr.Exists("del:key"))

	// 空参数不报错
	assert.NoError(t, c.Delete(ctx))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "rec:user:42", RecommendationKey(42))
	assert.Equal(t, "rec:trending", TrendingKey())
}

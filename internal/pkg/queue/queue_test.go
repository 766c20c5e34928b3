package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
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

	return client, cleanup
}

func TestQueue_PushAndLength(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "payment_events")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := &PaymentMessage{
			UserID:        int64(i + 1),
			Plan:          "premium",
			TransactionID: fmt.Sprintf("TXN-%03d", i+1),
		}
		err := q.Push(ctx, msg)
		require.NoError(t, err)
	}

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), length)
}

func TestQueue_RoundTrip(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "payment_events")
	ctx := context.Background()

	original := &PaymentMessage{
		UserID:        42,
		Plan:          "family",
		Amount:        180000,
		TransactionID: "VNPAY-20260828-001",
		Status:        "success",
		ReceivedAt:    time.Now().Unix(),
	}

	err := q.Push(ctx, original)
	require.NoError(t, err)

	result, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, original.UserID, result.UserID)
	assert.Equal(t, original.Plan, result.Plan)
	assert.Equal(t, original.Amount, result.Amount)
	assert.Equal(t, original.TransactionID, result.TransactionID)
	assert.Equal(t, original.Status, result.Status)
	assert.Equal(t, original.ReceivedAt, result.ReceivedAt)
}

func TestQueue_Pop_FIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "payment_events")
	ctx := context.Background()

	// 入队顺序 1, 2, 3
	for i := 1; i <= 3; i++ {
		err := q.Push(ctx, &PaymentMessage{UserID: int64(i)})
		require.NoError(t, err)
	}

	// 出队也应为 1, 2, 3
	for i := 1; i <= 3; i++ {
		result, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, int64(i), result.UserID)
	}
}

func TestQueue_Pop_Empty(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")
	ctx := context.Background()

	result, err := q.Pop(ctx, 10*time.Millisecond)

	// miniredis 对 BRPop 超时的处理与真实 Redis 略有差异
	if err == nil {
		assert.Nil(t, result)
	}
}

package pubsub

import (
	"context"
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

func TestPublishPaymentResult_FillsTypeAndMessage(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	p := NewPublisher(client)

	msg := &PaymentResultMessage{
		UserID:        1,
		Event:         EventPaymentSucceeded,
		Plan:          "premium",
		TransactionID: "TXN-001",
	}

	err := p.PublishPaymentResult(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "payment_result", msg.Type)
	assert.Equal(t, EventMessages[EventPaymentSucceeded], msg.Message)
}

func TestPublishPaymentResult_KeepsCustomMessage(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	p := NewPublisher(client)

	msg := &PaymentResultMessage{
		UserID:        1,
		Event:         EventPaymentFailed,
		TransactionID: "TXN-002",
		Message:       "余额不足",
	}

	err := p.PublishPaymentResult(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "余额不足", msg.Message)
}

func TestPubSub_RoundTrip(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *PaymentResultMessage, 1)

	s := NewSubscriber(client)
	go func() {
		_ = s.Subscribe(ctx, func(msg *PaymentResultMessage) {
			received <- msg
		})
	}()

	// 等订阅建立
	time.Sleep(50 * time.Millisecond)

	p := NewPublisher(client)
	err := p.PublishPaymentResult(ctx, &PaymentResultMessage{
		UserID:        7,
		Event:         EventPaymentDuplicate,
		TransactionID: "TXN-DUP",
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, int64(7), msg.UserID)
		assert.Equal(t, EventPaymentDuplicate, msg.Event)
		assert.Equal(t, "TXN-DUP", msg.TransactionID)
		assert.Equal(t, EventMessages[EventPaymentDuplicate], msg.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestSubscribe_StopsOnContextCancel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	s := NewSubscriber(client)
	go func() {
		done <- s.Subscribe(ctx, func(*PaymentResultMessage) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after context cancel")
	}
}

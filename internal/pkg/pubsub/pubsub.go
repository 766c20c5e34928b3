package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events_processed"
)

// 事件类型常量
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
	EventPaymentDuplicate = "payment_duplicate"
)

// 事件对应的用户提示
var EventMessages = map[string]string{
	EventPaymentSucceeded: "支付成功，订阅已开通",
	EventPaymentFailed:    "支付失败",
	EventPaymentDuplicate: "该笔支付已处理",
}

// PaymentResultMessage 支付处理结果消息
type PaymentResultMessage struct {
	Type          string `json:"type"`
	UserID        int64  `json:"user_id"`
	Event         string `json:"event"`
	Plan          string `json:"plan,omitempty"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPaymentResult 发布支付处理结果
func (p *Publisher) PublishPaymentResult(ctx context.Context, msg *PaymentResultMessage) error {
	msg.Type = "payment_result"

	if msg.Message == "" && msg.Event != "" {
		if message, ok := EventMessages[msg.Event]; ok {
			msg.Message = message
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal payment result: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅支付结果消息
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PaymentResultMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var resultMsg PaymentResultMessage
			if err := json.Unmarshal([]byte(msg.Payload), &resultMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&resultMsg)
		}
	}
}

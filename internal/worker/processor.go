package worker

import (
	"context"
	"errors"
	"log"

	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/pkg/pubsub"
	"github.com/qs3c/movie_go_server/internal/pkg/queue"
	"github.com/qs3c/movie_go_server/internal/service"
)

// Processor 支付事件处理器。网关会重试回调，同一笔交易可能被
// 多个 worker 同时消费，幂等性由 service 层的交易号去重保证
type Processor struct {
	subscriptionService *service.SubscriptionService
	publisher           *pubsub.Publisher
}

// NewProcessor 创建支付事件处理器
func NewProcessor(subscriptionService *service.SubscriptionService, publisher *pubsub.Publisher) *Processor {
	return &Processor{
		subscriptionService: subscriptionService,
		publisher:           publisher,
	}
}

// Process 处理一条支付事件
func (p *Processor) Process(ctx context.Context, msg *queue.PaymentMessage) error {
	event := &dto.PaymentEvent{
		Status:        msg.Status,
		Plan:          msg.Plan,
		UserID:        msg.UserID,
		Amount:        msg.Amount,
		TransactionID: msg.TransactionID,
	}

	result, err := p.subscriptionService.ProcessPayment(event)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTransaction) {
			// 重复回调，通知一下即可，不算失败
			log.Printf("Payment %s already processed, skipping", msg.TransactionID)
			p.publish(ctx, msg, pubsub.EventPaymentDuplicate, "")
			return nil
		}
		p.publish(ctx, msg, pubsub.EventPaymentFailed, err.Error())
		return err
	}

	if result.Success {
		p.publish(ctx, msg, pubsub.EventPaymentSucceeded, "")
	} else {
		p.publish(ctx, msg, pubsub.EventPaymentFailed, "")
	}
	return nil
}

func (p *Processor) publish(ctx context.Context, msg *queue.PaymentMessage, event, errMsg string) {
	if p.publisher == nil {
		return
	}
	err := p.publisher.PublishPaymentResult(ctx, &pubsub.PaymentResultMessage{
		UserID:        msg.UserID,
		Event:         event,
		Plan:          msg.Plan,
		TransactionID: msg.TransactionID,
		Error:         errMsg,
	})
	if err != nil {
		log.Printf("Failed to publish payment result for %s: %v", msg.TransactionID, err)
	}
}

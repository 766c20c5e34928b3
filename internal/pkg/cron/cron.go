package cron

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/movie_go_server/internal/service"
)

type Service struct {
	subscriptionService *service.SubscriptionService
	sweepInterval       time.Duration
	stopChan            chan struct{}
}

func NewService(subscriptionService *service.SubscriptionService, sweepInterval time.Duration) *Service {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Service{
		subscriptionService: subscriptionService,
		sweepInterval:       sweepInterval,
		stopChan:            make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runSweep()
	log.Println("Cron service started (subscription sweep + stale stream prune)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runSweep 周期执行订阅过期落库与失效会话清理
func (s *Service) runSweep() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	// 启动时先跑一轮，避免重启后过期状态长时间滞留
	s.sweepOnce()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Service) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.subscriptionService.ReconcileExpired(ctx)
	if err != nil {
		log.Printf("Subscription sweep failed: %v", err)
	}

	pruned, err := s.subscriptionService.PruneStaleStreams(ctx)
	if err != nil {
		log.Printf("Stale stream prune failed: %v", err)
	}

	if expired > 0 || pruned > 0 {
		log.Printf("Sweep summary: expired_subscriptions=%d, pruned_streams=%d", expired, pruned)
	}
}

// RunNow 立即执行一轮清理（用于 cleanup 命令或手动触发）
func (s *Service) RunNow() {
	s.sweepOnce()
}

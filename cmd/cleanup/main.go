package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/database"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/service"
)

var (
	sweepSubs    = flag.Bool("sweep-subscriptions", true, "Flip subscriptions past their end date to expired")
	pruneStreams = flag.Bool("prune-streams", true, "Delete playback sessions idle past the stale window")
	timeout      = flag.Duration("timeout", time.Minute, "Max time for the whole run")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 1. 过期订阅落库
	if *sweepSubs {
		expired, err := subscriptionService.ReconcileExpired(ctx)
		if err != nil {
			log.Fatalf("Subscription sweep failed: %v", err)
		}
		log.Printf("Expired subscriptions marked: %d", expired)
	}

	// 2. 清理失效播放会话
	if *pruneStreams {
		pruned, err := subscriptionService.PruneStaleStreams(ctx)
		if err != nil {
			log.Fatalf("Stale stream prune failed: %v", err)
		}
		log.Printf("Stale stream sessions pruned: %d (stale window: %dh)", pruned, cfg.Stream.StaleHours)
	}

	log.Println("Cleanup completed")
}

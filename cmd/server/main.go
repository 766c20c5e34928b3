package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/api"
	"github.com/qs3c/movie_go_server/internal/api/handler"
	"github.com/qs3c/movie_go_server/internal/database"
	"github.com/qs3c/movie_go_server/internal/pkg/cache"
	"github.com/qs3c/movie_go_server/internal/pkg/cron"
	"github.com/qs3c/movie_go_server/internal/pkg/email"
	"github.com/qs3c/movie_go_server/internal/pkg/pubsub"
	"github.com/qs3c/movie_go_server/internal/pkg/queue"
	"github.com/qs3c/movie_go_server/internal/pkg/ws"
	"github.com/qs3c/movie_go_server/internal/repository"
	"github.com/qs3c/movie_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和缓存
	paymentQueue := queue.NewQueue(rdb, cfg.Queue.PaymentQueue)
	recCache := cache.New(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// 初始化 Service
	emailService := email.NewService(&cfg.Email)
	authService := service.NewAuthService(userRepo, emailService, cfg)
	userService := service.NewUserService(userRepo)
	movieService := service.NewMovieService(movieRepo)
	reviewService := service.NewReviewService(reviewRepo, movieRepo)
	historyService := service.NewHistoryService(historyRepo, movieRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, movieRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, cfg)
	recommendationService := service.NewRecommendationService(historyRepo, reviewRepo, movieRepo, recCache, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	movieHandler := handler.NewMovieHandler(movieService, authService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	historyHandler := handler.NewHistoryHandler(historyService, recommendationService)
	watchlistHandler := handler.NewWatchlistHandler(watchlistService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, paymentQueue, cfg)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 订阅支付处理结果，推送给在线用户
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.PaymentResultMessage) {
			if !wsHub.IsOnline(msg.UserID) {
				return
			}
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg}); err != nil {
				log.Printf("Failed to push payment result to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Payment result subscriber stopped: %v", err)
		}
	}()

	// 启动定时任务（订阅过期落库、失效会话清理）
	cronService := cron.NewService(subscriptionService, 0)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		movieHandler,
		reviewHandler,
		historyHandler,
		watchlistHandler,
		subscriptionHandler,
		recommendationHandler,
		websocketHandler,
		authService,
		subscriptionService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/movie_go_server/config"
	"github.com/qs3c/movie_go_server/internal/api/handler"
	"github.com/qs3c/movie_go_server/internal/api/middleware"
	"github.com/qs3c/movie_go_server/internal/service"
)

type Router struct {
	authHandler           *handler.AuthHandler
	userHandler           *handler.UserHandler
	movieHandler          *handler.MovieHandler
	reviewHandler         *handler.ReviewHandler
	historyHandler        *handler.HistoryHandler
	watchlistHandler      *handler.WatchlistHandler
	subscriptionHandler   *handler.SubscriptionHandler
	recommendationHandler *handler.RecommendationHandler
	websocketHandler      *handler.WebSocketHandler
	authService           *service.AuthService
	subscriptionService   *service.SubscriptionService
	cfg                   *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	movieHandler *handler.MovieHandler,
	reviewHandler *handler.ReviewHandler,
	historyHandler *handler.HistoryHandler,
	watchlistHandler *handler.WatchlistHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	recommendationHandler *handler.RecommendationHandler,
	websocketHandler *handler.WebSocketHandler,
	authService *service.AuthService,
	subscriptionService *service.SubscriptionService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:           authHandler,
		userHandler:           userHandler,
		movieHandler:          movieHandler,
		reviewHandler:         reviewHandler,
		historyHandler:        historyHandler,
		watchlistHandler:      watchlistHandler,
		subscriptionHandler:   subscriptionHandler,
		recommendationHandler: recommendationHandler,
		websocketHandler:      websocketHandler,
		authService:           authService,
		subscriptionService:   subscriptionService,
		cfg:                   cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
		}

		// 公开接口 - 影片浏览（可选认证）
		movies := api.Group("/movies")
		movies.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			movies.GET("", r.movieHandler.List)
			movies.GET("/genres", r.movieHandler.Genres)
			movies.GET("/featured", r.movieHandler.Featured)
			movies.GET("/:id", r.movieHandler.Get)
			movies.GET("/:id/reviews", r.reviewHandler.ListByMovie)
			movies.GET("/:id/reviews/stats", r.reviewHandler.RatingStats)
		}

		// 公开接口 - 热门榜单
		api.GET("/recommendations/trending", r.recommendationHandler.Trending)

		// 公开接口 - 支付回调
		payments := api.Group("/payments")
		{
			payments.POST("/ipn", r.subscriptionHandler.PaymentIPN)
			payments.GET("/return", r.subscriptionHandler.PaymentReturn)
		}

		// 公开接口 - 套餐目录
		api.GET("/subscriptions/plans", r.subscriptionHandler.Plans)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.POST("/auth/change-password", r.authHandler.ChangePassword)

			// 用户
			users := authenticated.Group("/users")
			{
				users.GET("/me", r.userHandler.Me)
				users.PUT("/me", r.userHandler.UpdateProfile)
			}

			// 播放信息，先过资格预检
			authenticated.GET("/movies/:id/streaming",
				middleware.StreamCheck(r.subscriptionService),
				r.movieHandler.Streaming)

			// 评论
			authenticated.POST("/movies/:id/reviews", r.reviewHandler.Create)
			authenticated.GET("/movies/:id/reviews/check", r.reviewHandler.CheckReviewed)
			reviews := authenticated.Group("/reviews")
			{
				reviews.GET("/mine", r.reviewHandler.ListMine)
				reviews.PUT("/:id", r.reviewHandler.Update)
				reviews.DELETE("/:id", r.reviewHandler.Delete)
				reviews.POST("/:id/helpful", r.reviewHandler.MarkHelpful)
				reviews.POST("/:id/report", r.reviewHandler.Report)
			}

			// 观看历史
			history := authenticated.Group("/history")
			{
				history.GET("", r.historyHandler.List)
				history.DELETE("", r.historyHandler.Clear)
				history.POST("/:movieId", r.historyHandler.Record)
				history.GET("/:movieId", r.historyHandler.GetByMovie)
				history.PUT("/:movieId/progress", r.historyHandler.UpdateProgress)
				history.DELETE("/:movieId", r.historyHandler.Delete)
			}

			// 想看清单
			watchlist := authenticated.Group("/watchlist")
			{
				watchlist.POST("", r.watchlistHandler.Add)
				watchlist.GET("", r.watchlistHandler.List)
				watchlist.GET("/stats", r.watchlistHandler.Stats)
				watchlist.GET("/:movieId/contains", r.watchlistHandler.Contains)
				watchlist.PUT("/:movieId", r.watchlistHandler.Update)
				watchlist.DELETE("/:movieId", r.watchlistHandler.Remove)
			}

			// 订阅与播放会话
			subscriptions := authenticated.Group("/subscriptions")
			{
				subscriptions.GET("/me", r.subscriptionHandler.Get)
				subscriptions.POST("/change-plan", r.subscriptionHandler.ChangePlan)
				subscriptions.POST("/cancel", r.subscriptionHandler.Cancel)
				subscriptions.POST("/renew", r.subscriptionHandler.Renew)
				subscriptions.GET("/streams", r.subscriptionHandler.Streams)
				subscriptions.POST("/streams/start", r.subscriptionHandler.StartStream)
				subscriptions.POST("/streams/end", r.subscriptionHandler.EndStream)
				subscriptions.GET("/payments", r.subscriptionHandler.PaymentHistory)
			}

			// 个性化推荐
			authenticated.GET("/recommendations", r.recommendationHandler.Get)
		}

		// 管理后台
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly(r.authService))
		{
			admin.GET("/users", r.userHandler.ListUsers)
			admin.GET("/users/stats", r.userHandler.Stats)
			admin.GET("/users/:id", r.userHandler.GetUser)
			admin.PUT("/users/:id/role", r.userHandler.UpdateRole)
			admin.PUT("/users/:id/active", r.userHandler.SetActive)

			admin.POST("/movies", r.movieHandler.Create)
			admin.GET("/movies/stats", r.movieHandler.Stats)
			admin.PUT("/movies/:id", r.movieHandler.Update)
			admin.DELETE("/movies/:id", r.movieHandler.Delete)
			admin.PUT("/movies/:id/featured", r.movieHandler.SetFeatured)

			admin.GET("/reviews/reported", r.reviewHandler.ListReported)
			admin.PUT("/reviews/:id/status", r.reviewHandler.Moderate)
			admin.DELETE("/reviews/:id", r.reviewHandler.AdminDelete)

			admin.GET("/history/stats", r.historyHandler.Stats)
			admin.GET("/subscriptions/stats", r.subscriptionHandler.Stats)
		}
	}

	return engine
}

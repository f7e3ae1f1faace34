package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ReubenWash/reubensocials-backend/internal/auth"
	"github.com/ReubenWash/reubensocials-backend/internal/config"
	"github.com/ReubenWash/reubensocials-backend/internal/message"
	"github.com/ReubenWash/reubensocials-backend/internal/notification"
	"github.com/ReubenWash/reubensocials-backend/internal/payment"
	"github.com/ReubenWash/reubensocials-backend/internal/post"
	"github.com/ReubenWash/reubensocials-backend/internal/user"
	"github.com/ReubenWash/reubensocials-backend/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, dispatcher *notification.Dispatcher, gateway payment.Gateway) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	walletRepo := wallet.NewRepository(db)
	postRepo := post.NewRepository(db)
	paymentRepo := payment.NewRepository(db, walletRepo)
	paymentService := payment.NewService(paymentRepo, postRepo, walletRepo, gateway, dispatcher, cfg.DefaultContentPrice)

	userHandler := user.NewHandler(db, dispatcher, cfg.JWTSecret)
	postHandler := post.NewHandler(post.NewService(postRepo, paymentService, dispatcher))
	walletHandler := wallet.NewHandler(db)
	paymentHandler := payment.NewHandler(paymentService)
	notificationHandler := notification.NewHandler(db)
	messageHandler := message.NewHandler(db, dispatcher)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me", userHandler.UpdateMe)

		protected.GET("/users/search", userHandler.Search)
		protected.GET("/users/suggested", userHandler.Suggested)
		protected.GET("/users/:username", userHandler.GetProfile)
		protected.POST("/users/:username/follow", userHandler.ToggleFollow)
		protected.GET("/users/:username/followers", userHandler.Followers)
		protected.GET("/users/:username/following", userHandler.Following)
		protected.GET("/users/:username/posts", postHandler.UserPosts)

		protected.POST("/posts", postHandler.Create)
		protected.GET("/feed", postHandler.Feed)
		protected.GET("/trending", postHandler.Trending)
		protected.GET("/posts/:postID", postHandler.Get)
		protected.PATCH("/posts/:postID", postHandler.Update)
		protected.DELETE("/posts/:postID", postHandler.Delete)
		protected.POST("/posts/:postID/share", postHandler.Share)
		protected.POST("/posts/:postID/like", postHandler.ToggleLike)
		protected.GET("/posts/:postID/comments", postHandler.Comments)
		protected.POST("/posts/:postID/comments", postHandler.AddComment)
		protected.GET("/posts/:postID/access", paymentHandler.CheckAccess)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.POST("/payments/topup-intent", paymentHandler.CreateTopUpIntent)
		protected.POST("/payments/purchase-intent", paymentHandler.CreatePurchaseIntent)
		protected.POST("/payments/confirm", paymentHandler.Confirm)
		protected.POST("/payments/wallet-purchase", paymentHandler.PurchaseWithWallet)
		protected.GET("/payments/history", paymentHandler.PaymentHistory)
		protected.GET("/purchases", paymentHandler.PurchaseHistory)

		creator := protected.Group("/creator")
		creator.Use(auth.RequireCreator())
		{
			creator.GET("/sales", paymentHandler.Sales)
		}

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/notifications/:notificationID/read", notificationHandler.MarkRead)

		protected.GET("/conversations", messageHandler.ListConversations)
		protected.POST("/conversations", messageHandler.CreateConversation)
		protected.GET("/conversations/:conversationID/messages", messageHandler.ListMessages)
		protected.POST("/conversations/:conversationID/messages", messageHandler.SendMessage)
		protected.POST("/conversations/:conversationID/read", messageHandler.MarkRead)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		// Built here so Shutdown from another goroutine never observes a
		// half-initialized server.
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

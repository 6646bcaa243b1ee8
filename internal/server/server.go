package server

import (
	"context"
	"net/http"

	"github.com/Dikshant005/Titan-Strength/internal/attendance"
	"github.com/Dikshant005/Titan-Strength/internal/auth"
	"github.com/Dikshant005/Titan-Strength/internal/class"
	"github.com/Dikshant005/Titan-Strength/internal/config"
	"github.com/Dikshant005/Titan-Strength/internal/notification"
	"github.com/Dikshant005/Titan-Strength/internal/payment"
	"github.com/Dikshant005/Titan-Strength/internal/plan"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"
	"github.com/Dikshant005/Titan-Strength/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, mailer *notification.Mailer) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	planRepo := plan.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	classRepo := class.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	var emailQueue notification.EmailQueue
	if mailer != nil {
		emailQueue = mailer
	}
	notificationService := notification.NewService(notificationRepo, userRepo, emailQueue)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	subscriptionService := subscription.NewService(subscriptionRepo, planRepo, userRepo, notificationService)
	paymentService := payment.NewService(paymentRepo, planRepo, subscriptionService, payment.Config{
		RazorpayKeyID:       cfg.RazorpayKeyID,
		RazorpayKeySecret:   cfg.RazorpayKeySecret,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
	})
	classService := class.NewService(classRepo, planRepo, userRepo, subscriptionService)
	attendanceService := attendance.NewService(attendanceRepo, subscriptionService)

	userHandler := user.NewHandler(userService)
	planHandler := plan.NewHandler(planRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	paymentHandler := payment.NewHandler(paymentService)
	classHandler := class.NewHandler(classService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	notificationHandler := notification.NewHandler(notificationService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	// Stripe calls this; auth is the signature header, not a bearer token.
	router.POST("/payments/webhook", paymentHandler.StripeWebhook)

	router.GET("/plans", planHandler.ListPlans)
	router.GET("/plans/:id", planHandler.GetPlan)
	router.GET("/classes", classHandler.ListSessions)
	router.GET("/classes/:id", classHandler.GetSession)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/subscriptions/me", subscriptionHandler.ListMySubscriptions)
		protected.GET("/subscriptions/me/active", subscriptionHandler.GetMyActiveSubscription)

		protected.POST("/payments/order", paymentHandler.CreateOrder)
		protected.POST("/payments/verify", paymentHandler.VerifyPayment)

		protected.POST("/classes/:id/book", classHandler.BookClass)
		protected.DELETE("/classes/:id/book", classHandler.CancelBooking)
		protected.GET("/bookings/me", classHandler.ListMyBookings)

		protected.POST("/attendance/checkin", attendanceHandler.CheckIn)
		protected.POST("/attendance/checkout", attendanceHandler.CheckOut)
		protected.GET("/attendance/me", attendanceHandler.GetMyHistory)
		protected.GET("/attendance/me/monthly", attendanceHandler.GetMyMonthlyVisits)

		protected.GET("/notifications/me", notificationHandler.ListMyNotifications)
		protected.GET("/notifications/me/unread", notificationHandler.GetUnreadCount)
		protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}

	staff := router.Group("/staff")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleOwner, auth.RoleManager, auth.RoleTrainer))
	{
		staff.POST("/classes", classHandler.CreateSession)
		staff.PUT("/classes/:id", classHandler.UpdateSession)
		staff.DELETE("/classes/:id", classHandler.CancelSession)
		staff.GET("/classes/:id/roster", classHandler.GetRoster)
		staff.POST("/classes/:id/attendance", classHandler.MarkAttendance)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleOwner, auth.RoleManager))
	{
		admin.POST("/plans", planHandler.CreatePlan)
		admin.GET("/plans", planHandler.ListAllPlans)
		admin.PUT("/plans/:id", planHandler.UpdatePlan)
		admin.DELETE("/plans/:id", planHandler.DeletePlan)

		admin.POST("/subscriptions", subscriptionHandler.CreateSubscription)
		admin.GET("/subscriptions", subscriptionHandler.ListSubscriptions)
		admin.DELETE("/subscriptions/:subscriptionID", subscriptionHandler.CancelSubscription)

		admin.GET("/attendance/users/:id", attendanceHandler.GetUserHistory)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

// Handler exposes the router for tests and for graceful shutdown wiring.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
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

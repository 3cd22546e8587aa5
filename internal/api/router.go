package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/aulahub/lms-platform/docs"
	"github.com/aulahub/lms-platform/internal/api/handler"
	"github.com/aulahub/lms-platform/internal/api/middleware"
	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
	"github.com/aulahub/lms-platform/internal/core/service"
	"github.com/aulahub/lms-platform/internal/infrastructure/billing"
	mongorepo "github.com/aulahub/lms-platform/internal/infrastructure/db/mongo"
	"github.com/aulahub/lms-platform/internal/infrastructure/realtime"
)

// Dependencies carries the wired infrastructure the router builds its
// services from.
type Dependencies struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Hub      *realtime.Hub
	Presence ports.Presence
	Mailer   ports.Mailer
	Files    ports.FileStore
	Gateway  *billing.Gateway

	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("lms"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(deps.Mongo)
	courseRepo := mongorepo.NewCourseRepository(deps.Mongo)
	postRepo := mongorepo.NewPostRepository(deps.Mongo)
	conversationRepo := mongorepo.NewConversationRepository(deps.Mongo)
	notificationRepo := mongorepo.NewNotificationRepository(deps.Mongo)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, userRepo, deps.Hub, deps.Log)
	authService := service.NewAuthService(userRepo, deps.Mailer, deps.Files, notificationService,
		deps.JWTSecret, deps.TokenTTL, deps.FrontendURL, deps.Log)
	userService := service.NewUserService(userRepo, deps.Files, deps.Log)
	courseService := service.NewCourseService(courseRepo, deps.Files, deps.Log)
	postService := service.NewPostService(postRepo, userRepo, deps.Files, notificationService, deps.Log)
	chatService := service.NewChatService(conversationRepo, userRepo, deps.Presence, deps.Log)
	billingService := service.NewBillingService(userRepo, deps.Gateway, deps.FrontendURL, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	courseHandler := handler.NewCourseHandler(courseService)
	postHandler := handler.NewPostHandler(postService)
	chatHandler := handler.NewChatHandler(chatService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	paymentHandler := handler.NewPaymentHandler(billingService, authService, deps.Gateway, deps.Log)
	wsHandler := handler.NewWSHandler(deps.Hub, deps.Presence, deps.JWTSecret, deps.Log)

	authed := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/complete-profile/:token", authHandler.CompleteProfile)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.PUT("/reset-password/:token", authHandler.ResetPassword)
	auth.GET("/profile", authHandler.Profile, authed)
	auth.POST("/invite", authHandler.Invite, authed, adminOnly)

	// --- User routes ---
	users := e.Group("/users", authed)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.GET("", userHandler.List, adminOnly)
	users.PUT("/:id/role", userHandler.SetRole, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Course routes ---
	courses := e.Group("/courses", authed)
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create, adminOnly)
	courses.PUT("/:id", courseHandler.Update, adminOnly)
	courses.DELETE("/:id", courseHandler.Delete, adminOnly)
	courses.POST("/:id/modules", courseHandler.AddModule, adminOnly)
	courses.DELETE("/:id/modules/:moduleId", courseHandler.DeleteModule, adminOnly)
	courses.POST("/:id/modules/:moduleId/lessons", courseHandler.AddLesson, adminOnly)
	courses.DELETE("/:id/modules/:moduleId/lessons/:lessonId", courseHandler.DeleteLesson, adminOnly)
	courses.POST("/:id/modules/:moduleId/lessons/:lessonId/resources", courseHandler.AddResource, adminOnly)
	courses.DELETE("/:id/modules/:moduleId/lessons/:lessonId/resources/:resourceId", courseHandler.DeleteResource, adminOnly)

	// --- Post routes ---
	posts := e.Group("/posts", authed)
	posts.GET("", postHandler.Feed)
	posts.POST("", postHandler.Create)
	posts.PUT("/:id/like", postHandler.ToggleLike)
	posts.POST("/:id/comments", postHandler.AddComment)
	posts.DELETE("/:id", postHandler.Delete)

	// --- Chat routes ---
	chat := e.Group("/chat", authed)
	chat.POST("/conversations", chatHandler.CreateOrGet)
	chat.GET("/conversations", chatHandler.ListMine)
	chat.POST("/conversations/:id/messages", chatHandler.Send)
	chat.DELETE("/conversations/:id", chatHandler.Delete)
	chat.GET("/peers", chatHandler.SearchPeers)

	// --- Notification routes ---
	notifications := e.Group("/notifications", authed)
	notifications.GET("", notificationHandler.ListMine)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)

	// --- Payment routes ---
	payment := e.Group("/payment")
	payment.POST("/create-checkout-session", paymentHandler.CreateCheckout, authed)
	payment.POST("/webhook", paymentHandler.Webhook)

	// --- Realtime ---
	e.GET("/ws", wsHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

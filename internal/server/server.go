package server

import (
	"log"
	"strings"
	"time"

	"github.com/askup-dev/askup-backend/internal/config"
	"github.com/askup-dev/askup-backend/internal/middleware"
	"github.com/askup-dev/askup-backend/pkg/storage"

	answerHttp "github.com/askup-dev/askup-backend/internal/modules/answer/delivery/http"
	answerRepo "github.com/askup-dev/askup-backend/internal/modules/answer/repository"
	answerService "github.com/askup-dev/askup-backend/internal/modules/answer/service"

	gamificationHttp "github.com/askup-dev/askup-backend/internal/modules/gamification/delivery/http"
	gamificationRepo "github.com/askup-dev/askup-backend/internal/modules/gamification/repository"
	gamificationService "github.com/askup-dev/askup-backend/internal/modules/gamification/service"

	messagingHttp "github.com/askup-dev/askup-backend/internal/modules/messaging/delivery/http"
	messagingRepo "github.com/askup-dev/askup-backend/internal/modules/messaging/repository"
	messagingService "github.com/askup-dev/askup-backend/internal/modules/messaging/service"

	notifHttp "github.com/askup-dev/askup-backend/internal/modules/notification/delivery/http"
	notifRepo "github.com/askup-dev/askup-backend/internal/modules/notification/repository"
	notifService "github.com/askup-dev/askup-backend/internal/modules/notification/service"

	profileHttp "github.com/askup-dev/askup-backend/internal/modules/profile/delivery/http"
	profileService "github.com/askup-dev/askup-backend/internal/modules/profile/service"

	questionHttp "github.com/askup-dev/askup-backend/internal/modules/question/delivery/http"
	questionRepo "github.com/askup-dev/askup-backend/internal/modules/question/repository"
	questionService "github.com/askup-dev/askup-backend/internal/modules/question/service"

	searchService "github.com/askup-dev/askup-backend/internal/modules/search/service"

	userHttp "github.com/askup-dev/askup-backend/internal/modules/user/delivery/http"
	userRepo "github.com/askup-dev/askup-backend/internal/modules/user/repository"
	userService "github.com/askup-dev/askup-backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("Cloudinary storage unavailable, avatar uploads disabled: %v", err)
		imageStorage = nil
	}

	var searchSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewSearchService(meiliClient)
	}

	// Gamification Module
	gamRepository := gamificationRepo.NewGamificationRepository(db)
	gamSvc := gamificationService.NewGamificationService(gamRepository, redisClient)
	gamHandler := gamificationHttp.NewGamificationHandler(gamSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := userService.NewAuthService(users, gamSvc, notificationSvc, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	profileSvc := profileService.NewProfileService(users, imageStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	questions := questionRepo.NewQuestionRepository(db)
	questionSvc := questionService.NewQuestionService(questions, users, gamSvc, notificationSvc, searchSvc)
	questionHandler := questionHttp.NewQuestionHandler(questionSvc)

	answers := answerRepo.NewAnswerRepository(db)
	answerSvc := answerService.NewAnswerService(answers, questions, users, gamSvc, notificationSvc)
	answerHandler := answerHttp.NewAnswerHandler(answerSvc)

	conversations := messagingRepo.NewMessagingRepository(db)
	messagingSvc := messagingService.NewMessagingService(conversations, users, gamSvc, notificationSvc)
	messagingHandler := messagingHttp.NewMessagingHandler(messagingSvc)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.PUT("/questions/:id/assign", questionHandler.AssignQuestion)
		}

		// Question routes
		protected.POST("/questions", questionHandler.CreateQuestion)
		protected.GET("/questions", questionHandler.ListQuestions)
		protected.GET("/questions/search", questionHandler.SearchQuestions)
		protected.GET("/questions/:id", questionHandler.GetQuestion)
		protected.DELETE("/questions/:id", questionHandler.DeleteQuestion)

		// Answer routes
		protected.POST("/answers", answerHandler.CreateAnswer)
		protected.PUT("/answers/:id/accept", answerHandler.AcceptAnswer)
		protected.PUT("/answers/:id/helpful", answerHandler.MarkHelpful)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetMe)
		protected.GET("/profile/:username", profileHandler.GetByUsername)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.GET("/profile/settings", profileHandler.GetSettings)
		protected.PUT("/profile/settings", profileHandler.UpdateSettings)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)

		// Gamification routes
		protected.GET("/gamification/stats", gamHandler.GetMyStats)
		protected.GET("/gamification/points", gamHandler.GetMyPoints)
		protected.GET("/leaderboard", gamHandler.GetLeaderboard)

		// Messaging routes
		protected.POST("/conversations", messagingHandler.CreateConversation)
		protected.GET("/conversations", messagingHandler.ListConversations)
		protected.GET("/conversations/unread-count", messagingHandler.UnreadCount)
		protected.POST("/conversations/:id/messages", messagingHandler.SendMessage)
		protected.GET("/conversations/:id/messages", messagingHandler.GetMessages)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

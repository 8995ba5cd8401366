package server

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/rescueplate/backend/internal/config"
	"github.com/rescueplate/backend/internal/middleware"
	"github.com/rescueplate/backend/pkg/storage"

	adminHttp "github.com/rescueplate/backend/internal/modules/admin/delivery/http"
	adminService "github.com/rescueplate/backend/internal/modules/admin/service"

	donationHttp "github.com/rescueplate/backend/internal/modules/donation/delivery/http"
	donationRepo "github.com/rescueplate/backend/internal/modules/donation/repository"
	donationService "github.com/rescueplate/backend/internal/modules/donation/service"

	photoHttp "github.com/rescueplate/backend/internal/modules/photo/delivery/http"

	requestHttp "github.com/rescueplate/backend/internal/modules/request/delivery/http"
	requestRepo "github.com/rescueplate/backend/internal/modules/request/repository"
	requestService "github.com/rescueplate/backend/internal/modules/request/service"

	searchService "github.com/rescueplate/backend/internal/modules/search/service"

	userHttp "github.com/rescueplate/backend/internal/modules/user/delivery/http"
	userRepo "github.com/rescueplate/backend/internal/modules/user/repository"
	userService "github.com/rescueplate/backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rescueplate/backend/internal/entity"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	donations := donationRepo.NewDonationRepository(db)
	requests := requestRepo.NewRequestRepository(db)

	var imageStorage storage.ImageStorage
	if os.Getenv("CLOUDINARY_URL") != "" || cfg.CloudinaryCloudName != "" {
		var err error
		imageStorage, err = storage.NewCloudinaryStorage()
		if err != nil {
			log.Fatalf("failed to initialize cloudinary storage: %v", err)
		}
	} else {
		log.Println("Cloudinary not configured, photo uploads disabled")
	}

	var searchSvc searchService.DonationSearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewDonationSearchService(meiliClient)
	} else {
		log.Println("Meilisearch not configured, donation indexing disabled")
	}

	authSvc := userService.NewAuthService(users, redisClient)
	authHandler := userHttp.NewAuthHandler(authSvc)

	donationSvc := donationService.NewService(donations, users, searchSvc, redisClient, cfg.RateLimitDonation)
	donationHandler := donationHttp.NewDonationHandler(donationSvc)

	requestSvc := requestService.NewService(requests, donations, users, searchSvc, redisClient, cfg.RateLimitRequest)
	requestHandler := requestHttp.NewRequestHandler(requestSvc)

	adminSvc := adminService.NewAdminService(users, donations, searchSvc, imageStorage)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	photoHandler := photoHttp.NewPhotoHandler(imageStorage)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(users, redisClient)

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
		protected.POST("/auth/logout", authHandler.Logout)

		// Donor routes
		donor := protected.Group("")
		donor.Use(authMiddleware.RequireRole(entity.RoleDonor, entity.RoleAdmin))
		{
			donor.POST("/donations", donationHandler.CreateDonation)
			donor.GET("/donations/me", donationHandler.GetMyDonations)
			donor.POST("/donations/:id/fulfill", donationHandler.FulfillDonation)
			donor.GET("/donations/:id/requests", requestHandler.ListForDonation)
			donor.POST("/requests/:id/approve", requestHandler.ApproveRequest)
			donor.POST("/requests/:id/reject", requestHandler.RejectRequest)
		}

		// Recipient routes
		recipient := protected.Group("")
		recipient.Use(authMiddleware.RequireRole(entity.RoleRecipient, entity.RoleAdmin))
		{
			recipient.POST("/donations/:id/requests", requestHandler.CreateRequest)
			recipient.GET("/requests/me", requestHandler.ListMyRequests)
		}

		// Browse is open to any authenticated role
		protected.GET("/donations", donationHandler.BrowseDonations)
		protected.POST("/upload", photoHandler.UploadPhoto)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.GET("/donations", adminHandler.GetAllDonations)
			adminGroup.PUT("/donations/:id/status", adminHandler.UpdateDonationStatus)
			adminGroup.DELETE("/donations/:id", adminHandler.DeleteDonation)
		}
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
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/clients"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/config"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/handlers"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/middleware"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/repository"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/service"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/worker"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/pkg/database"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Prefeitura NGO Catalog Backend Starting ===")

	cfg := config.Load()

	db, err := database.Connect(database.Config(cfg.DB))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	redisClient, err := redis.Connect(redis.Config(cfg.Redis))
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatal("Failed to create upload dir:", err)
	}

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	ngoRepo := repository.NewNgoRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	hcpassClient := clients.NewHCPassClient(cfg.HCPass.LoginURL)

	// Services
	itemService := service.NewItemService(itemRepo, cacheRepo)
	authService := service.NewAuthService(ngoRepo, hcpassClient, cfg.JWT.Secret)

	// Expiration workers, one per item purpose, with staggered start.
	scheduler := worker.NewScheduler()

	if cfg.Workers.DonationEnabled {
		scheduler.AddWorker(worker.NewDonationWorker(itemService, cfg.Workers.DonationInterval, cfg.Workers.DonationDelay))
		log.Printf("Donation Worker enabled (interval: %v)", cfg.Workers.DonationInterval)
	}

	if cfg.Workers.RelocationEnabled {
		scheduler.AddWorker(worker.NewRelocationWorker(itemService, cfg.Workers.RelocationInterval, cfg.Workers.RelocationDelay))
		log.Printf("Relocation Worker enabled (interval: %v)", cfg.Workers.RelocationInterval)
	}

	go scheduler.Start()
	defer scheduler.Stop()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	r.Static("/uploads", cfg.Upload.Dir)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)

	authHandler := handlers.NewAuthHandler(authService)
	donationHandler := handlers.NewItemHandler(itemService, models.PurposeDonation, cfg.Upload.Dir, cfg.Upload.BaseURL)
	relocationHandler := handlers.NewItemHandler(itemService, models.PurposeRelocation, cfg.Upload.Dir, cfg.Upload.BaseURL)

	api := r.Group("/api")

	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/profile", authRequired, authHandler.Profile)

	donationHandler.Register(api.Group("/donations"), authRequired)
	relocationHandler.Register(api.Group("/relocations"), authRequired)

	api.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		donations, _ := itemRepo.Count(ctx, models.PurposeDonation)
		relocations, _ := itemRepo.Count(ctx, models.PurposeRelocation)

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"items": gin.H{
				"donations":   donations,
				"relocations": relocations,
			},
			"workers": gin.H{
				"donation_enabled":   cfg.Workers.DonationEnabled,
				"relocation_enabled": cfg.Workers.RelocationEnabled,
				"running":            scheduler.IsRunning(),
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"kosmart/internal/caching"
	"kosmart/internal/config"
	"kosmart/internal/handlers"
	"kosmart/internal/jobs"
	"kosmart/internal/jobs/background"
	"kosmart/internal/middleware"
	"kosmart/internal/repositories"
	"kosmart/internal/services"
	"kosmart/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	// File-based configuration tunes behavior; connections come from env.
	cfg := config.Default()
	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", configFile, err)
		}
		cfg = loaded
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	documentSvc, err := services.NewDocumentService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	if err := documentSvc.EnsureBucketExists(ctx); err != nil {
		log.Printf("WARNING: failed to ensure documents bucket: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	tenancyRepo := repositories.NewTenancyRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	clock := clockwork.NewRealClock()

	// Create services
	authSvc := services.NewAuthService(userRepo, jwtSecret, clock)
	propertySvc := services.NewPropertyService(pool, propertyRepo, tenancyRepo, cacheSvc)
	tenantSvc := services.NewTenantService(pool, tenantRepo, tenancyRepo, cacheSvc)
	tenancySvc := services.NewTenancyService(pool, tenancyRepo, tenantRepo, propertyRepo, paymentRepo, clock)
	paymentSvc := services.NewPaymentService(paymentRepo, tenancyRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	propertyHandlers := handlers.NewPropertyHandlers(propertySvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc)
	tenancyHandlers := handlers.NewTenancyHandlers(tenancySvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, documentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	overdueSvc := jobs.NewOverdueAlertService(tenancyRepo, paymentRepo, clock)
	entityTTL := time.Duration(cfg.Cache.EntityTTLMinutes) * time.Minute
	scheduler := background.NewJobScheduler(overdueSvc, cacheSvc, propertyRepo, tenantRepo, cfg.Jobs, entityTTL)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", healthHandlers.Health)
	e.GET("/ready", healthHandlers.Ready)

	api := e.Group("/api/v1")
	api.POST("/auth/signup", authHandlers.Signup)
	api.POST("/auth/login", authHandlers.Login)

	protected := api.Group("", echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.GET("/auth/me", authHandlers.Me)

	protected.POST("/properties", propertyHandlers.CreateProperty)
	protected.GET("/properties", propertyHandlers.ListProperties)
	protected.GET("/properties/:id", propertyHandlers.GetProperty)
	protected.PUT("/properties/:id", propertyHandlers.UpdateProperty)
	protected.DELETE("/properties/:id", propertyHandlers.DeleteProperty)

	protected.POST("/tenants", tenantHandlers.CreateTenant)
	protected.GET("/tenants", tenantHandlers.ListTenants)
	protected.GET("/tenants/:id", tenantHandlers.GetTenant)
	protected.PUT("/tenants/:id", tenantHandlers.UpdateTenant)
	protected.DELETE("/tenants/:id", tenantHandlers.DeleteTenant)

	protected.POST("/tenancies", tenancyHandlers.CreateTenancy)
	protected.GET("/tenancies", tenancyHandlers.ListTenancies)
	protected.GET("/tenancies/search", tenancyHandlers.SearchTenancies)
	protected.GET("/tenancies/:id", tenancyHandlers.GetTenancy)
	protected.PUT("/tenancies/:id", tenancyHandlers.UpdateTenancy)
	protected.DELETE("/tenancies/:id", tenancyHandlers.DeleteTenancy)
	protected.GET("/tenancies/:id/payments", paymentHandlers.ListPaymentsByTenancy)

	protected.POST("/payments", paymentHandlers.RecordPayment)
	protected.DELETE("/payments/:id", paymentHandlers.DeletePayment)
	protected.POST("/payments/:id/receipt", paymentHandlers.UploadReceipt)
	protected.GET("/payments/:id/receipt", paymentHandlers.GetReceiptURL)

	e.Server.ReadTimeout = time.Duration(cfg.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.Server.WriteTimeout) * time.Second

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Printf("kosmart %s listening on %s", version, addr)
		if err := e.Start(addr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

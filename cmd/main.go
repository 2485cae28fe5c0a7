package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"content-ingestion-service/internal/clients"
	"content-ingestion-service/internal/config"
	"content-ingestion-service/internal/extract"
	"content-ingestion-service/internal/logger"
	"content-ingestion-service/internal/telemetry"
	"content-ingestion-service/middleware"
	"content-ingestion-service/routes"
	"content-ingestion-service/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Redis backs the per-IP rate limiter; the limiter fails open if it
	// is unreachable at runtime
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("content-ingestion-service", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracer:", err)
		}
		defer shutdown()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to initialize metrics:", err)
	}

	// Collaborator clients
	timeout := time.Duration(cfg.CollaboratorTimeout) * time.Second
	metadataClient := clients.NewMetadataClient(cfg.MetadataServiceURL, timeout)
	embeddingClient := clients.NewEmbeddingClient(cfg.EmbeddingServiceURL, timeout, cfg.EmbeddingRPM)
	conversationClient := clients.NewConversationClient(cfg.ConversationServiceURL, timeout)
	profileClient := clients.NewProfileClient(cfg.ProfileServiceURL, timeout)
	userClient := clients.NewUserClient(cfg.UserServiceURL, timeout)

	pipeline, err := services.NewIngestionPipeline(
		cfg,
		services.NewMongoContentStore(db),
		extract.New(),
		metadataClient,
		embeddingClient,
		conversationClient,
		profileClient,
		userClient,
		services.NewSMTPNotifier(*cfg),
		metrics,
	)
	if err != nil {
		log.Fatal("Failed to build ingestion pipeline:", err)
	}
	defer pipeline.Close()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	// Multipart encoding adds overhead on top of the file itself
	router.Use(middleware.RequestSizeLimit(cfg.MaxFileSize + 1024*1024))
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	router.Use(middleware.MetricsMiddleware(metrics))
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	api := router.Group("/api")
	api.Use(authMiddleware.OptionalAuth())
	{
		api.POST("/upload", routes.HandleUpload(cfg, pipeline))
		api.GET("/upload/:jobID/status", routes.CheckUploadStatus(pipeline))
		api.GET("/files", routes.ListContent(pipeline))
		api.GET("/contents/:contentID/chunks", routes.ListContentChunks(pipeline))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexalyze/legal-docs-api/internal/analyzer"
	"github.com/lexalyze/legal-docs-api/internal/auth"
	"github.com/lexalyze/legal-docs-api/internal/config"
	"github.com/lexalyze/legal-docs-api/internal/db"
	"github.com/lexalyze/legal-docs-api/internal/handlers"
	"github.com/lexalyze/legal-docs-api/internal/processor"
	"github.com/lexalyze/legal-docs-api/internal/repository"
	"github.com/lexalyze/legal-docs-api/internal/router"
	"github.com/lexalyze/legal-docs-api/internal/services"
	"github.com/lexalyze/legal-docs-api/internal/storage"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Process-scoped clients, constructed once and injected
	docRepo := repository.NewDocumentRepository(database)
	userRepo := repository.NewUserRepository(database)

	blobStore, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	llm := analyzer.NewOpenAIAnalyzer(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	proc := processor.New(docRepo, blobStore, llm, processor.NewRepositorySink(docRepo), logger)

	docService := services.NewDocumentService(docRepo, blobStore, proc, logger)
	authService := services.NewAuthService(userRepo, tokens, logger)

	docHandler := handlers.NewDocumentHandler(docService, cfg.MaxFileSize, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)

	// Setup HTTP router
	handler := router.New(docHandler, authHandler, tokens, cfg.AllowedOrigin, logger)

	// Create HTTP server
	// WriteTimeout must outlast a synchronous re-analysis, which waits on
	// the model calls (60s transport timeout each, issued in parallel).
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

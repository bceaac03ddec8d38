package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appamqp "github.com/lucasamarante27/my-contabil/internal/amqp"
	"github.com/lucasamarante27/my-contabil/internal/auth"
	authgoogle "github.com/lucasamarante27/my-contabil/internal/auth/google"
	authlocal "github.com/lucasamarante27/my-contabil/internal/auth/local"
	"github.com/lucasamarante27/my-contabil/internal/config"
	apphttp "github.com/lucasamarante27/my-contabil/internal/http"
	"github.com/lucasamarante27/my-contabil/internal/ledger"
	"github.com/lucasamarante27/my-contabil/internal/store"
	"github.com/lucasamarante27/my-contabil/internal/store/dynamo"
	"github.com/lucasamarante27/my-contabil/internal/store/memory"
	"github.com/lucasamarante27/my-contabil/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Storage backend
	var txStore store.TransactionStore
	switch cfg.DataBackend {
	case "dynamo":
		s, err := dynamo.New(context.Background(), dynamo.Config{
			Region:   cfg.DynamoRegion,
			Table:    cfg.DynamoTable,
			Endpoint: cfg.DynamoEndpoint,
		})
		if err != nil {
			logger.Error("Failed to initialize DynamoDB store", "error", err, "table", cfg.DynamoTable)
			os.Exit(1)
		}
		txStore = s
		logger.Info("Initialized DynamoDB backend", "table", cfg.DynamoTable, "region", cfg.DynamoRegion)
	case "sqlite":
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		txStore = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		txStore = memory.New()
		logger.Info("Initialized memory backend")
	}
	defer txStore.Close()

	// Identity provider
	var provider auth.IdentityProvider
	switch cfg.AuthBackend {
	case "google":
		p, err := authgoogle.New(context.Background(), cfg.GoogleAPIKey)
		if err != nil {
			logger.Error("Failed to initialize Identity Toolkit provider", "error", err)
			os.Exit(1)
		}
		provider = p
		logger.Info("Initialized Identity Toolkit auth backend")
	default:
		provider = authlocal.New()
		logger.Info("Initialized local auth backend")
	}

	// Event pipeline (optional)
	var events ledger.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Initialized AMQP event pipeline", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event pipeline disabled - no AMQP_URL provided")
	}

	svc := ledger.New(txStore, events)
	sessions := auth.NewSessionManager(cfg.SessionTTL)

	srv := apphttp.NewServer(":"+cfg.Port, svc, provider, sessions)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting contabil server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

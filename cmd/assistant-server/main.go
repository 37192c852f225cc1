// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sales-assistant/internal/assistant/contextdata"
	"sales-assistant/internal/assistant/genai"
	"sales-assistant/internal/assistant/prompt"
	"sales-assistant/internal/assistant/stream"
	"sales-assistant/internal/common/config"
	"sales-assistant/internal/common/database"
	"sales-assistant/internal/common/httpclient"
	"sales-assistant/internal/common/logger"
	"sales-assistant/internal/common/observability"
	"sales-assistant/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("assistant-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	// The cache layer is an accelerator only: when Redis stays down every
	// lookup degrades to a miss and the live CRM endpoints carry the load.
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Assemble the pipeline ---
	aggregator := contextdata.NewAggregator(
		contextdata.LoadConfig(cfg.CRM.BaseURL),
		redis,
		httpclient.New(),
		log,
	)
	composer := prompt.NewComposer(prompt.LoadConfig())
	relay := stream.NewRelay(genai.NewClient(cfg.GenAI), log)

	chat, err := server.NewChatHandler(aggregator, composer, relay, obs, log)
	if err != nil {
		zapLog.Fatal("chat handler init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: server.New(chat).Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Assistant server stopped gracefully")
}

/*
Package main is the entry point for the nickchat server.

It loads configuration, initializes logging, opens the store and the photo
storage, serves the HTTP API, and shuts down gracefully on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nickchat/internal/app/chat"
	"nickchat/internal/app/db"
	"nickchat/internal/app/memstore"
	"nickchat/internal/app/storage"
	"nickchat/internal/configs"
	"nickchat/internal/handler"
	"nickchat/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("store_driver", cfg.StoreDriver).
		Str("storage_driver", cfg.StorageDriver).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store chat.Store
	switch cfg.StoreDriver {
	case configs.StoreDriverMemory:
		logx.Warn("Using in-memory store; users and messages are lost on restart.")
		store = memstore.New()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		defer pool.Close()
		store = db.NewStore(pool)
	}

	photos, err := storage.NewStorageService(ctx, storage.ServiceConfig{
		Driver:            cfg.StorageDriver,
		UploadDir:         cfg.UploadDir,
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		S3PublicURL:       cfg.S3PublicURL,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize photo storage")
	}

	chatService := chat.NewService(store, photos)

	router := handler.Router(&handler.AppDeps{
		Config: cfg,
		Chat:   chatService,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("nickchat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	chatService.Wait()

	logx.Info("Server gracefully stopped.")
}

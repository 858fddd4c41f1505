package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/bootstrap"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-menu-service/internal/server"

	entryH "github.com/fekuna/omnipos-menu-service/internal/entry/handler"
	entryUCPkg "github.com/fekuna/omnipos-menu-service/internal/entry/usecase"

	importH "github.com/fekuna/omnipos-menu-service/internal/importer/handler"
	importRepoPkg "github.com/fekuna/omnipos-menu-service/internal/importer/repository"
	importUCPkg "github.com/fekuna/omnipos-menu-service/internal/importer/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := bootstrap.NewLogger(cfg)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open Entry Store
	store, err := bootstrap.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open entry store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Producer
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ImportTopic,
	})
	defer producer.Close()
	appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.ImportTopic))

	// 6. Initialize Elasticsearch
	searchIndex := bootstrap.NewSearchIndex(cfg, appLogger)

	// 7. Initialize UseCases
	entryUC := entryUCPkg.NewEntryUseCase(store.Repo, searchIndex, appLogger)
	jobStore := importRepoPkg.NewRedisJobStore(redisClient)
	importUC := importUCPkg.NewImportUseCase(entryUC, jobStore, redisClient, producer, appLogger)

	// 8. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	entryH.RegisterMenuEntryServiceServer(grpcServer, entryH.NewEntryHandler(entryUC, appLogger))
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	// 9. Start HTTP Server
	httpPort := cfg.Server.HTTPPort
	if !strings.HasPrefix(httpPort, ":") {
		httpPort = ":" + httpPort
	}

	router := server.NewRouter(
		server.HTTPConfig{AllowOrigins: cfg.Server.AllowOrigins, IsDevelopment: cfg.IsDevelopment()},
		appLogger,
		entryH.NewHTTPHandler(entryUC, appLogger),
		importH.NewImportHandler(importUC, appLogger),
	)
	httpServer := &http.Server{
		Addr:              httpPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", httpPort))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

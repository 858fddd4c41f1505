package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/bootstrap"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"

	entryUCPkg "github.com/fekuna/omnipos-menu-service/internal/entry/usecase"
	importListenerPkg "github.com/fekuna/omnipos-menu-service/internal/importer/listener"
	importRepoPkg "github.com/fekuna/omnipos-menu-service/internal/importer/repository"
	importUCPkg "github.com/fekuna/omnipos-menu-service/internal/importer/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := bootstrap.NewLogger(cfg).With(zap.String("component", "import-worker"))
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open entry store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ImportTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.ImportTopic))

	entryUC := entryUCPkg.NewEntryUseCase(store.Repo, bootstrap.NewSearchIndex(cfg, appLogger), appLogger)
	importUC := importUCPkg.NewImportUseCase(entryUC, importRepoPkg.NewRedisJobStore(redisClient), redisClient, nil, appLogger)

	importListenerPkg.NewImportListener(consumer, importUC, appLogger).Start(ctx)
	appLogger.Info("Import worker stopped")
}

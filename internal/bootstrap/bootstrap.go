// Package bootstrap holds the wiring shared by the service binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/entry"
	entryRepo "github.com/fekuna/omnipos-menu-service/internal/entry/repository"
	entryUC "github.com/fekuna/omnipos-menu-service/internal/entry/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/sqlite"
	"go.uber.org/zap"
)

func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	return logger.NewZapLogger(logConfig)
}

func PostgresConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
}

// Store is an opened entry store and the function releasing it.
type Store struct {
	Repo  entry.Repository
	Close func() error
}

// OpenStore opens the entry store selected by STORE_DRIVER and brings its
// schema up to date.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := postgres.NewPostgres(PostgresConfig(cfg))
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		log.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))
		return &Store{Repo: entryRepo.NewPGRepository(db), Close: db.Close}, nil

	case "sqlite":
		db, err := sqlite.NewSQLite(cfg.Store.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := entryRepo.AutoMigrate(db.WithContext(ctx)); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		log.Info("Opened SQLite database", zap.String("path", cfg.Store.SQLitePath))
		return &Store{Repo: entryRepo.NewGormRepository(db), Close: sqlDB.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewSearchIndex connects to Elasticsearch. It returns nil when search is
// disabled or unreachable; the service then runs without search.
func NewSearchIndex(cfg *config.Config, log logger.ZapLogger) entryUC.SearchIndex {
	if !cfg.Elastic.Enabled {
		log.Info("Elasticsearch disabled")
		return nil
	}

	client, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		log.Warn("Could not connect to Elasticsearch (search disabled)", zap.Error(err))
		return nil
	}
	log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	return client
}

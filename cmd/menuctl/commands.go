package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fekuna/omnipos-menu-service/internal/bootstrap"
	entryUCPkg "github.com/fekuna/omnipos-menu-service/internal/entry/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/importer"
	importRepoPkg "github.com/fekuna/omnipos-menu-service/internal/importer/repository"
	importUCPkg "github.com/fekuna/omnipos-menu-service/internal/importer/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/postgres"
)

type StructureCommand struct {
	MenuID int64 `help:"Menu to print." name:"menu-id" required:""`
}

func (c *StructureCommand) Run(app *App) error {
	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	uc := entryUCPkg.NewEntryUseCase(store.Repo, nil, app.Logger)
	menu, err := uc.GetMenuStructure(ctx, c.MenuID)
	if err != nil {
		return err
	}
	return printJSON(app, menu)
}

type ImportCommand struct {
	MenuID int64  `help:"Menu to import into." name:"menu-id" required:""`
	File   string `help:"Path to the import document." type:"existingfile" required:""`
}

func (c *ImportCommand) Run(app *App) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var doc importer.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", c.File, err)
	}

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     app.Config.Redis.Addr,
		Password: app.Config.Redis.Password,
		DB:       app.Config.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	producer := broker.NewProducer(&broker.Config{
		Brokers: app.Config.Kafka.Brokers,
		Topic:   app.Config.Kafka.ImportTopic,
	})
	defer producer.Close()

	uc := importUCPkg.NewImportUseCase(nil, importRepoPkg.NewRedisJobStore(redisClient), redisClient, producer, app.Logger)
	job, err := uc.RequestImport(ctx, c.MenuID, &doc)
	if err != nil {
		return err
	}
	return printJSON(app, job)
}

type MigrateCommand struct{}

func (c *MigrateCommand) Run(app *App) error {
	db, err := postgres.NewPostgres(bootstrap.PostgresConfig(app.Config))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		return err
	}
	fmt.Fprintln(app.Out, "migrations applied")
	return nil
}

func printJSON(app *App, v any) error {
	enc := json.NewEncoder(app.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

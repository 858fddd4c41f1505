package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/bootstrap"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/joho/godotenv"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger
	Out    io.Writer
}

type Command struct {
	Structure StructureCommand `cmd:"structure" help:"Print the formatted structure of a menu as JSON."`
	Import    ImportCommand    `cmd:"import" help:"Queue an import of a menu tree from a JSON document."`
	Migrate   MigrateCommand   `cmd:"migrate" help:"Apply the PostgreSQL schema migrations."`
}

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("menuctl"),
		kong.Description("Menu service command line interface"),
		kong.UsageOnError(),
	)

	appLogger := bootstrap.NewLogger(cfg)
	defer appLogger.Sync()

	err := ctx.Run(&App{
		Config: cfg,
		Logger: appLogger,
		Out:    os.Stdout,
	})
	ctx.FatalIfErrorf(err)
}

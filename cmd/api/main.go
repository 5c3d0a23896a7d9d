package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"movieapp/proj/internal/api/tasks"
	"movieapp/proj/internal/config"
	"movieapp/proj/internal/lib/logger"
	"movieapp/proj/internal/services"
	"movieapp/proj/internal/storage/postgres"
	pgmodels "movieapp/proj/internal/storage/postgres/models"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	cfg := config.MustLoad(resolveConfigPath(*cfgPath))
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to the database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()
	log.Info("database connection established")
	if cfg.DB.AutoMigrate {
		if err := storage.Migrate(ctx); err != nil {
			log.Error("failed to apply migrations", "errMsg", err.Error())
			os.Exit(1)
		}
		log.Info("database schema is up to date")
	}

	bgTasks := tasks.New(log, cfg.BgTasks.Workers, cfg.BgTasks.QueueSize)
	bgTasks.Run()
	svcs, err := services.New(log, cfg, services.FromPostgres(pgmodels.New(storage)), bgTasks)
	if err != nil {
		log.Error("failed to init services", "errMsg", err.Error())
		os.Exit(1)
	}
	app := NewApplication(cfg, log, svcs)
	if err := app.serve(bgTasks); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}

// resolveConfigPath prefers the -config flag, then CONFIG_PATH.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "config/local.yml"
}

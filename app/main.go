package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/extract"
	"nwaevents/internal/graceful"
	"nwaevents/internal/notify"
	"nwaevents/internal/orchestrator"
	"nwaevents/internal/reconcile"
	"nwaevents/internal/repositories"
	"nwaevents/internal/sources"
	"nwaevents/internal/sources/eventbrite"
	"nwaevents/internal/sources/luma"
	"nwaevents/internal/transport/httpServer"
	"nwaevents/internal/transport/httpServer/handlers"
	"nwaevents/internal/transport/httpServer/routers"
	"nwaevents/internal/utils/logger/handlers/slogpretty"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting events service",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	repositoryService := repositories.New(log, cfg)

	registry := sources.NewRegistry(
		eventbrite.New(log, cfg.Sources.Eventbrite),
		luma.New(log, cfg.Sources.Luma),
	)

	engine := reconcile.New(log, repositoryService)
	orchestratorService := orchestrator.New(log, registry, engine)

	aiClient := extract.NewClient(log, cfg.AI)
	extractor := extract.New(log, aiClient, cfg.AI.PromptBudget)

	notifier := notify.New(log, cfg.Notify)

	// HTTP server
	eventHandler := handlers.NewEventHandler(log, repositoryService, notifier, cfg.HttpServer.JWTSecret)
	syncHandler := handlers.NewSyncHandler(log, orchestratorService)
	importHandler := handlers.NewImportHandler(log, extractor, cfg.ImportTimeout)
	subscribeHandler := handlers.NewSubscribeHandler(log, repositoryService)
	authHandler := handlers.NewAuthHandler(log, cfg.HttpServer.AdminPassword, cfg.HttpServer.JWTSecret, cfg.HttpServer.JWTTTL)

	router := routers.NewRouter(
		log,
		eventHandler,
		syncHandler,
		importHandler,
		subscribeHandler,
		authHandler,
		cfg.HttpServer.SyncSecret,
		cfg.HttpServer.JWTSecret,
	)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		map[string]graceful.Operation{
			"HTTP server": func(ctx context.Context) error {
				return httpSrv.Shutdown(ctx)
			},
			"Repository service": func(ctx context.Context) error {
				return repositoryService.Shutdown(ctx)
			},
		},
		log,
	)

	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = setupPrettySlog(slog.LevelInfo)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

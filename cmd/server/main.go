package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "smart_channels/docs"
	"smart_channels/internal/bootstrap"
	"smart_channels/internal/config"
	"smart_channels/internal/executor"
	"smart_channels/internal/handlers"
	"smart_channels/internal/logger"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/repository"
	"smart_channels/internal/server"
	"smart_channels/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Smart Channels API
// @version                     1.0
// @description                 Channel actions, parameter config and per-user API rate limits.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configDir := pflag.String("config", "configs", "directory containing config.yml")
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	sqlDB, err := bootstrap.OpenDB(cfg)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	store, err := bootstrap.OpenStore(context.Background(), cfg, sqlDB)
	if err != nil {
		log.Fatalw("failed to open rate limit store", "err", err, "store", cfg.RateLimit.Store)
	}
	defer func() { _ = store.Close() }()

	limiter, err := bootstrap.NewLimiter(cfg, store)
	if err != nil {
		log.Fatalw("invalid rate limit config", "err", err)
	}

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.Deps{
		Limiter:  limiter,
		Resolver: executor.NewDefaultResolver(),
		Translator: paramconfig.NewTranslator(repos.ChannelRepo, paramconfig.Options{
			MaxOpeningClosingTimeS: cfg.Channels.MaxOpeningClosingTimeS,
		}),
		SigningKey:    cfg.Auth.SigningKey,
		TokenTTL:      cfg.Auth.TokenTTL,
		DefaultLimits: cfg.UserLimits.Limits(),
		SeedChannels:  cfg.Channels.SeedOnSignUp,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AdminToken: cfg.Admin.Token,
		AuthRate:   cfg.AuthThrottle.Rate,
		AuthBurst:  cfg.AuthThrottle.Burst,
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("server_started", "port", cfg.Port, "rate_limit_store", cfg.RateLimit.Store, "default_rule", limiter.DefaultRule().String())

	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM and then drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

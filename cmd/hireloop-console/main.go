package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/config"
	"github.com/hireloop-labs/hireloop-console/internal/logger"
	"github.com/hireloop-labs/hireloop-console/internal/server"
	"github.com/hireloop-labs/hireloop-console/internal/service"
	"github.com/hireloop-labs/hireloop-console/internal/storage/bolt"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("load config", "err", err)
	}
	log := logger.Get(cfg.Log.Level)

	api, err := apiclient.New(cfg.API.BaseURL, cfg.API.RequestTimeout)
	if err != nil {
		log.Fatalw("init api client", "err", err)
	}

	store, err := bolt.New(cfg.Storage.Path, cfg.Storage.Secret)
	if err != nil {
		log.Fatalw("open store", "err", err)
	}
	defer store.Close()

	authSvc := service.NewAuthService(cfg, api, store)
	entrySvc := service.NewEntryService(api)
	notifySvc := service.NewNotificationService(store, api, log)

	srv := server.New(cfg, log, api, authSvc, entrySvc, notifySvc)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalw("server stopped", "err", err)
		}
	}()

	// graceful shutdown
	waitForSignal()
	log.Infow("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "err", err)
	}
}

func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}

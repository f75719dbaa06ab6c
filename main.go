package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/photoslideshow/api"
	"github.com/aouyang1/photoslideshow/config"
	"github.com/aouyang1/photoslideshow/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data := store.NewDataFile(cfg.DataFile)

	var database *store.Database
	if cfg.PersistSettings {
		database, err = store.NewDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close()
	} else {
		slog.Info("settings persistence disabled, saves are validated and echoed only")
	}

	assets := api.NewAssetIndex(cfg.AssetsDir)

	var remoteUpdated <-chan bool
	if cfg.RemoteSyncEnabled() {
		remoteManager, err := api.NewRemoteManager(ctx, cfg.AWSProfile, cfg.S3Bucket, cfg.AssetsDir)
		if err != nil {
			log.Fatalf("Failed to initialize remote manager: %v", err)
		}
		remoteUpdated = remoteManager.Updated
		go remoteManager.Run(ctx)
	}
	go assets.Run(ctx, remoteUpdated)

	webServer := api.NewWebServer(data, database, assets, cfg.OpenAPIFile, cfg.AllowedOrigins)
	slog.Info("starting photo slideshow api server", "addr", cfg.Addr, "data_file", cfg.DataFile)
	if err := webServer.Start(ctx, cfg.Addr); err != nil {
		slog.Error("web server stopped", "error", err)
		os.Exit(1)
	}
}

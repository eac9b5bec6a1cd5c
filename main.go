package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelolockdev/trading-signals-generator/internal/api"
	"github.com/angelolockdev/trading-signals-generator/internal/events"
	"github.com/angelolockdev/trading-signals-generator/internal/price"
	"github.com/angelolockdev/trading-signals-generator/internal/refresh"
	"github.com/angelolockdev/trading-signals-generator/internal/store"
	"github.com/angelolockdev/trading-signals-generator/pkg/config"
	"github.com/angelolockdev/trading-signals-generator/pkg/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("starting signal tracker on port %s (db %s)", cfg.Port, cfg.DBPath)
	if cfg.GoldAPIKey == "" {
		log.Println("[PRICE] GOLD_API_KEY not set; price fallback will be used")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer database.Close()
	if err := db.ApplyMigrations(database); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	source := price.NewSource(cfg.GoldAPIURL, cfg.GoldAPIKey, cfg.Symbol, cfg.PriceCacheTTL)
	signals := store.New(database, bus)

	refresher := &refresh.Orchestrator{
		Source:   source,
		Store:    signals,
		Bus:      bus,
		Interval: cfg.RefreshInterval,
	}
	go refresher.Run(ctx)

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	server := api.NewServer(bus, database, signals, source, refresher,
		api.SystemMeta{Symbol: cfg.Symbol, Version: version}, cfg.JWTSecret)

	go func() {
		if err := server.Start(":" + cfg.Port); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutting down")
	cancel()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
	"github.com/vitos/trade_pnl/internal/infrastructure/logger"
	"github.com/vitos/trade_pnl/internal/infrastructure/metadata"
	"github.com/vitos/trade_pnl/internal/infrastructure/storage"
	"github.com/vitos/trade_pnl/internal/usecase"
	"github.com/vitos/trade_pnl/internal/web"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Engine struct {
		BaseMint string `yaml:"base_mint"`
		Costing  string `yaml:"costing"`
	} `yaml:"engine"`
	Metadata struct {
		Endpoint  string `yaml:"endpoint"`
		TimeoutMs int    `yaml:"timeout_ms"`
	} `yaml:"metadata"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// 1. Load Config
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 3. Init Storage
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = "trades.db"
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	// 4. Init Metadata Client (optional)
	var metaProvider domain.TokenMetadataProvider
	if cfg.Metadata.Endpoint != "" {
		metaProvider = metadata.NewClient(
			cfg.Metadata.Endpoint,
			time.Duration(cfg.Metadata.TimeoutMs)*time.Millisecond,
			log,
		)
	}

	// 5. Init Engine + Service
	costing := usecase.NewCostingStrategy(cfg.Engine.Costing)
	accountant := usecase.NewAccountant(cfg.Engine.BaseMint, costing, log)
	service := usecase.NewReportService(store, nil, metaProvider, accountant, log)
	log.Info("PnL engine ready",
		zap.String("base_mint", accountant.BaseMint()),
		zap.String("costing", costing.Name()))

	// 6. Init Web Server + WS Hub
	hub := web.NewWSHub(log)
	go hub.Run()

	port := cfg.Server.Port
	if port == 0 {
		port = 8080 // Default
	}
	server := web.NewServer(port, store, service, hub, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

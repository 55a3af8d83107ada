package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lankanlp/sinhalate/internal/config"
	"github.com/lankanlp/sinhalate/internal/database"
	"github.com/lankanlp/sinhalate/internal/hybrid"
	"github.com/lankanlp/sinhalate/internal/idiom"
	"github.com/lankanlp/sinhalate/internal/memory"
	"github.com/lankanlp/sinhalate/internal/server"
	"github.com/lankanlp/sinhalate/internal/translation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	dict, err := idiom.Load(cfg.Idioms.MappingFile)
	if err != nil {
		return fmt.Errorf("idiom.Load(%s) > %w", cfg.Idioms.MappingFile, err)
	}
	slog.Info("idiom dictionary loaded", "path", cfg.Idioms.MappingFile, "entries", dict.Len())

	nllbClient := translation.NewNLLBClient(cfg.Backend.URL, cfg.Backend.MaxRetryAttempts)
	defer func() {
		_ = nllbClient.Close()
	}()

	var backend translation.Translator = nllbClient
	if cfg.Backend.CircuitBreaker {
		backend = translation.NewBreakerTranslator(nllbClient)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := backend.CheckHealth(ctx); err != nil {
		slog.Warn("model server health check failed, requests may fail until it is ready",
			"url", cfg.Backend.URL, "error", err)
	}

	var memoryRepo memory.Repository
	if cfg.Database.Enabled {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("database.Open() > %w", err)
		}
		defer func() {
			_ = db.Close()
		}()
		memoryRepo = memory.NewDBRepository(db)
		slog.Info("translation memory enabled", "host", cfg.Database.Host)
	}

	translator := hybrid.NewTranslator(dict, backend, memoryRepo, slog.Default())
	handler := server.NewHandler(translator, slog.Default())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, server.CORSMiddleware(cfg.Server.CORS.AllowedOrigins, handler.Routes()))
}

func loadConfig() (*config.Config, error) {
	configFile := os.Getenv("SINHALATE_CONFIG")
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

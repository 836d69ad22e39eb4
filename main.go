package main

import (
	"context"
	"log"

	"github.com/0x13a/jobdash/internal/api"
	"github.com/0x13a/jobdash/internal/config"
	"github.com/0x13a/jobdash/internal/dashboard"
	"github.com/0x13a/jobdash/internal/handler"
	"github.com/0x13a/jobdash/internal/server"
	"github.com/0x13a/jobdash/internal/store"
	"github.com/0x13a/jobdash/internal/template"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	logger := server.NewLogger(cfg.Env)

	client, err := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create api client")
	}
	confirmations, err := dashboard.NewConfirmations(context.Background(), cfg.ConfirmTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create confirmation cache")
	}
	defer confirmations.Close()

	svr := server.NewServer(
		cfg,
		mux.NewRouter(),
		template.NewTemplate(),
		server.NewSessionStore(cfg),
		logger,
	)
	loader := store.NewLoader(client, store.New(), cfg.LogsLimit)
	handler.RegisterRoutes(svr, client, loader, dashboard.NewRefresher(cfg.RefreshCooldown), confirmations)

	logger.Info().Str("api", cfg.APIBaseURL).Msg("starting dashboard")
	if err := svr.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/melmove/parking-viewer/services/api/config"
	"github.com/melmove/parking-viewer/services/api/db"
	httpserver "github.com/melmove/parking-viewer/services/api/http"
	"github.com/melmove/parking-viewer/services/api/logging"
	"github.com/melmove/parking-viewer/services/api/prediction"
	"github.com/melmove/parking-viewer/services/api/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config error")
	}
	logging.Init(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg, buildRegistry(cfg), prediction.New(cfg.PredictionURL, cfg.PredictionTimeout))
	logging.Info().
		Str("addr", cfg.ListenAddr()).
		Str("default_source", string(cfg.DefaultSource)).
		Msg("parking API listening")

	if err := srv.Run(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
}

func buildRegistry(cfg config.Config) *source.Registry {
	local := source.NewLocalFile(cfg.BaysFile, cfg.SensorsFile)

	if !cfg.CloudConfigured() {
		logging.Warn().Msg("DB_HOST not set, cloud source will serve mock data")
	}
	cloud := source.NewDatabase(db.New(cfg.Database, cfg.DBVariant), cfg.DBTimeout)

	var feed source.Adapter = source.NewFeed(cfg.Feed, local)
	if cfg.FeedRateLimit > 0 {
		feed = source.NewRateLimited(feed, cfg.FeedRateLimit, cfg.FeedBurst)
	}

	reg := source.NewRegistry()
	reg.Register(source.KindLocal, local)
	reg.Register(source.KindCloud, cloud)
	reg.Register(source.KindFeed, feed)
	return reg
}

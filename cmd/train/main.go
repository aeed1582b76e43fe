package main

import (
	"context"
	"flag"
	"time"

	"climate-backend/internal/database"
	"climate-backend/internal/forecast"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
	"climate-backend/internal/training"
	"climate-backend/pkg/config"
)

// Bootstrap trainer: fits an initial model artifact from all stored
// history (or a synthetic dataset) so the server can warm-start with
// forecasts available before its first scheduled retraining cycle.
func main() {
	synthetic := flag.Bool("synthetic", false, "train on generated data instead of stored history")
	days := flag.Int("days", 5, "days of synthetic data to generate")
	trees := flag.Int("trees", 100, "forest size")
	flag.Parse()

	cfg := config.Load()
	log := logger.Get(cfg.LogLevel)

	var samples []models.SensorSample
	if *synthetic {
		samples = training.GenerateSamples(*days, 6, time.Now().UTC(), time.Now().UnixNano())
		log.Infow("generated synthetic training data", "days", *days, "samples", len(samples))
	} else {
		db, err := database.NewClickHouseDB(
			cfg.ClickHouseAddr,
			cfg.ClickHouseDB,
			cfg.ClickHouseUser,
			cfg.ClickHousePass,
			log,
		)
		if err != nil {
			log.Fatalw("failed to initialize ClickHouse", "err", err)
		}
		defer db.Close()

		samples, err = db.AllSamples(context.Background())
		if err != nil {
			log.Fatalw("failed to load stored history", "err", err)
		}
		log.Infow("loaded stored history", "samples", len(samples))
		samples = ensureSamples(samples, cfg.MinSamples, *days, log)
	}

	if len(samples) < cfg.MinSamples {
		log.Fatalw("not enough samples to train",
			"samples", len(samples), "required", cfg.MinSamples)
	}

	trainer := training.NewTrainer(nil, forecast.NewService(log), training.Config{
		Trees:        *trees,
		ArtifactPath: cfg.ArtifactPath,
	}, log)

	artifact, err := trainer.Fit(samples)
	if err != nil {
		log.Fatalw("training failed", "err", err)
	}

	if err := forecast.SaveArtifact(artifact, cfg.ArtifactPath); err != nil {
		log.Fatalw("failed to write artifact", "err", err)
	}
	log.Infow("artifact written",
		"path", cfg.ArtifactPath, "version", artifact.Version, "trees", *trees)
}

// ensureSamples substitutes generated data when stored history is too
// small to train on, so a fresh deployment can still bootstrap a model.
func ensureSamples(samples []models.SensorSample, min, days int, log *logger.Logger) []models.SensorSample {
	if len(samples) >= min {
		return samples
	}
	log.Infow("no real data found, using generated sample data",
		"stored", len(samples), "required", min, "days", days)
	return training.GenerateSamples(days, 6, time.Now().UTC(), time.Now().UnixNano())
}

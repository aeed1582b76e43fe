package training

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"climate-backend/internal/forecast"
	"climate-backend/internal/logger"
	"climate-backend/internal/ml"
	"climate-backend/internal/models"
)

// evaluation split, fixed for reproducible diagnostics
const (
	testFraction = 0.2
	splitSeed    = 42
)

// SampleSource provides the historical window the trainer learns from.
// Implemented by the ClickHouse store.
type SampleSource interface {
	SamplesInRange(ctx context.Context, from, to time.Time) ([]models.SensorSample, error)
}

// Config controls the periodic retraining job.
type Config struct {
	Interval     time.Duration // retraining period, default 6h
	Window       time.Duration // history window pulled per cycle, default 72h
	MinSamples   int           // below this the cycle is skipped, default 24
	Trees        int           // forest size, default 50
	ArtifactPath string        // durable artifact location for warm restarts
}

// Trainer periodically refits the per-channel forecast models from stored
// history and publishes the result to the forecast service. It only reads
// storage and performs a single atomic publish at the end of a cycle, so
// it never serializes behind the ingestion path.
type Trainer struct {
	source    SampleSource
	forecasts *forecast.Service
	cfg       Config
	log       *logger.Logger
	scheduler *gocron.Scheduler
}

// NewTrainer wires a trainer; Start schedules it.
func NewTrainer(source SampleSource, forecasts *forecast.Service, cfg Config, log *logger.Logger) *Trainer {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Window <= 0 {
		cfg.Window = 72 * time.Hour
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = 24
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 50
	}
	return &Trainer{
		source:    source,
		forecasts: forecasts,
		cfg:       cfg,
		log:       log,
	}
}

// Start runs one immediate cycle when no artifact has ever been published,
// then schedules retraining at the configured interval. Cycle failures are
// logged and retried at the next tick; they never propagate to the
// ingestion path.
func (t *Trainer) Start(ctx context.Context) error {
	if !t.forecasts.Available() {
		if err := t.RunCycle(ctx); err != nil {
			t.log.Warnw("bootstrap training cycle failed", "err", err)
		}
	}

	t.scheduler = gocron.NewScheduler(time.UTC)
	_, err := t.scheduler.Every(t.cfg.Interval).Do(func() {
		if err := t.RunCycle(ctx); err != nil {
			t.log.Errorw("training cycle failed, keeping current artifact", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule training job: %w", err)
	}

	t.scheduler.StartAsync()
	t.log.Infow("trainer scheduled", "interval", t.cfg.Interval, "window", t.cfg.Window)
	return nil
}

// Stop halts the retraining schedule.
func (t *Trainer) Stop() {
	if t.scheduler != nil {
		t.scheduler.Stop()
	}
}

// RunCycle executes one full retraining pass: fetch window, build the
// lookahead dataset, fit scaler and forests, log held-out metrics, publish
// and persist the new artifact. Insufficient history is a skip, not an
// error; any fitting or IO failure aborts without touching the live
// artifact.
func (t *Trainer) RunCycle(ctx context.Context) error {
	now := time.Now().UTC()
	samples, err := t.source.SamplesInRange(ctx, now.Add(-t.cfg.Window), now)
	if err != nil {
		return fmt.Errorf("failed to fetch training window: %w", err)
	}

	if len(samples) < t.cfg.MinSamples {
		t.log.Infow("not enough data to train models, skipping cycle",
			"samples", len(samples), "required", t.cfg.MinSamples)
		return nil
	}

	artifact, err := t.Fit(samples)
	if err != nil {
		return err
	}

	t.forecasts.Publish(artifact)
	if t.cfg.ArtifactPath != "" {
		if err := forecast.SaveArtifact(artifact, t.cfg.ArtifactPath); err != nil {
			// Live artifact is already published; losing durability only
			// affects the next restart.
			t.log.Errorw("failed to persist artifact", "err", err)
		}
	}

	t.log.Infow("models updated and published",
		"version", artifact.Version, "samples", len(samples))
	return nil
}

// Fit builds a dataset from the (timestamp-ascending) samples and fits a
// complete artifact: scaler plus one forest per channel, with RMSE and R²
// reported per channel on an 80/20 held-out split. Metrics are diagnostic
// only and never gate publication.
func (t *Trainer) Fit(samples []models.SensorSample) (*forecast.Artifact, error) {
	ds := BuildDataset(samples)
	if ds.Len() < 2 {
		return nil, fmt.Errorf("dataset too small after lookahead labeling: %d examples", ds.Len())
	}

	trainRows, testRows := ml.TrainTestSplit(ds.Len(), testFraction, splitSeed)
	train := ds.Subset(trainRows)
	test := ds.Subset(testRows)

	scaler := ml.FitScaler(train.Features)
	scaledTrain := scaler.TransformAll(train.Features)
	scaledTest := scaler.TransformAll(test.Features)

	cfg := ml.ForestConfig{Trees: t.cfg.Trees, Seed: splitSeed}

	channels := []struct {
		name         string
		trainTargets []float64
		testTargets  []float64
	}{
		{"temperature", train.Temperature, test.Temperature},
		{"humidity", train.Humidity, test.Humidity},
		{"air_quality", train.AirQuality, test.AirQuality},
	}

	forests := make([]ml.ForestParams, len(channels))
	for i, ch := range channels {
		forest, err := ml.FitForest(scaledTrain, ch.trainTargets, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to fit %s model: %w", ch.name, err)
		}
		forests[i] = forest

		preds := make([]float64, len(scaledTest))
		for j, f := range scaledTest {
			preds[j] = forest.Predict(f)
		}
		t.log.Infow("model evaluation",
			"channel", ch.name,
			"rmse", ml.RMSE(preds, ch.testTargets),
			"r2", ml.R2(preds, ch.testTargets))
	}

	return &forecast.Artifact{
		Version:     uuid.NewString(),
		TrainedAt:   time.Now().UTC(),
		Scaler:      scaler,
		Temperature: forests[0],
		Humidity:    forests[1],
		AirQuality:  forests[2],
	}, nil
}

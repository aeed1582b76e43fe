package training

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"climate-backend/internal/forecast"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

type fakeSource struct {
	samples []models.SensorSample
	err     error
}

func (f *fakeSource) SamplesInRange(ctx context.Context, from, to time.Time) ([]models.SensorSample, error) {
	return f.samples, f.err
}

func newTestTrainer(source SampleSource, artifactPath string) (*Trainer, *forecast.Service) {
	log := logger.Get(logger.ErrorLevel)
	svc := forecast.NewService(log)
	tr := NewTrainer(source, svc, Config{
		Interval:     time.Hour,
		Window:       72 * time.Hour,
		MinSamples:   24,
		Trees:        10,
		ArtifactPath: artifactPath,
	}, log)
	return tr, svc
}

func TestRunCycle_InsufficientDataSkipsWithoutError(t *testing.T) {
	src := &fakeSource{samples: GenerateSamples(1, 1, time.Now().UTC(), 3)[:10]}
	tr, svc := newTestTrainer(src, "")

	if err := tr.RunCycle(context.Background()); err != nil {
		t.Fatalf("insufficient data must not be an error: %v", err)
	}
	if svc.Available() {
		t.Fatalf("no artifact must be published on a skipped cycle")
	}
}

func TestRunCycle_SourceErrorAbortsCycle(t *testing.T) {
	src := &fakeSource{err: errors.New("storage down")}
	tr, svc := newTestTrainer(src, "")

	if err := tr.RunCycle(context.Background()); err == nil {
		t.Fatalf("expected error when the window query fails")
	}
	if svc.Available() {
		t.Fatalf("failed cycle must not publish")
	}
}

func TestRunCycle_PublishesAndPersistsArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	src := &fakeSource{samples: GenerateSamples(1, 6, time.Now().UTC(), 42)} // 144 samples
	tr, svc := newTestTrainer(src, path)

	if err := tr.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if !svc.Available() {
		t.Fatalf("expected an artifact published")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected artifact persisted to disk: %v", err)
	}
	loaded, err := forecast.LoadArtifact(path)
	if err != nil {
		t.Fatalf("persisted artifact unreadable: %v", err)
	}
	if loaded.Version == "" || len(loaded.Scaler.Mean) != 5 {
		t.Fatalf("persisted artifact incomplete: %+v", loaded.Version)
	}

	// The published model must produce in-range forecasts for a typical
	// sample drawn from the same distribution.
	pred, ok := svc.Predict(models.SensorSample{
		Temperature: 23, Humidity: 52, AirQuality: 520, Timestamp: time.Now(),
	}, 13, 2)
	if !ok {
		t.Fatalf("expected prediction from published artifact")
	}
	if pred.Temperature < 10 || pred.Temperature > 35 {
		t.Fatalf("implausible temperature forecast: %v", pred.Temperature)
	}
	if pred.AirQuality < 250 || pred.AirQuality > 900 {
		t.Fatalf("implausible air quality forecast: %v", pred.AirQuality)
	}
}

func TestFit_FreshVersionPerCycle(t *testing.T) {
	tr, _ := newTestTrainer(&fakeSource{}, "")
	samples := GenerateSamples(1, 6, time.Now().UTC(), 42)

	first, err := tr.Fit(samples)
	if err != nil {
		t.Fatalf("first fit failed: %v", err)
	}
	second, err := tr.Fit(samples)
	if err != nil {
		t.Fatalf("second fit failed: %v", err)
	}
	if first.Version == "" || first.Version == second.Version {
		t.Fatalf("expected distinct artifact versions, got %q and %q", first.Version, second.Version)
	}
}

func TestFit_TooFewExamples(t *testing.T) {
	tr, _ := newTestTrainer(&fakeSource{}, "")
	// 7 samples leave a single example after lookahead labeling.
	if _, err := tr.Fit(GenerateSamples(1, 6, time.Now().UTC(), 9)[:7]); err == nil {
		t.Fatalf("expected error for dataset with fewer than 2 examples")
	}
}

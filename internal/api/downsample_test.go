package api

import (
	"testing"
	"time"

	"climate-backend/internal/models"
)

func TestDownsample_CapsLargeSeries(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]models.SensorSample, 250)
	for i := range samples {
		samples[i] = models.SensorSample{Temperature: float64(i), Timestamp: base.Add(time.Duration(i) * time.Minute)}
	}

	got := Downsample(samples, 100)

	if len(got) > 100 {
		t.Fatalf("expected at most 100 points, got %d", len(got))
	}
	if got[0].Timestamp != base {
		t.Fatalf("first point must be the first stored point, got %v", got[0].Timestamp)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("timestamps out of order at index %d", i)
		}
	}
}

func TestDownsample_SmallSeriesUntouched(t *testing.T) {
	samples := make([]models.SensorSample, 40)
	for i := range samples {
		samples[i] = models.SensorSample{Temperature: float64(i)}
	}

	got := Downsample(samples, 100)
	if len(got) != 40 {
		t.Fatalf("expected all 40 points back, got %d", len(got))
	}
	for i := range got {
		if got[i].Temperature != float64(i) {
			t.Fatalf("point %d changed: %v", i, got[i])
		}
	}
}

func TestDownsample_Empty(t *testing.T) {
	if got := Downsample([]models.SensorSample{}, 100); len(got) != 0 {
		t.Fatalf("expected empty result, got %d points", len(got))
	}
}

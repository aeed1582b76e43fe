package main

import (
	"testing"
	"time"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

func TestEnsureSamples_KeepsSufficientHistory(t *testing.T) {
	stored := make([]models.SensorSample, 30)
	for i := range stored {
		stored[i] = models.SensorSample{Temperature: float64(i)}
	}

	got := ensureSamples(stored, 24, 5, logger.Get(logger.ErrorLevel))
	if len(got) != 30 || got[0].Temperature != 0 || got[29].Temperature != 29 {
		t.Fatalf("stored history must be returned unchanged, got %d samples", len(got))
	}
}

func TestEnsureSamples_FallsBackToGeneratedData(t *testing.T) {
	got := ensureSamples(nil, 24, 2, logger.Get(logger.ErrorLevel))

	want := 2 * 24 * 6
	if len(got) != want {
		t.Fatalf("expected %d generated samples, got %d", want, len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("generated samples out of order at index %d", i)
		}
	}
	if got[len(got)-1].Timestamp.After(time.Now().UTC().Add(time.Minute)) {
		t.Fatal("generated samples must end at the current time")
	}
}

package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"climate-backend/internal/ml"
)

// Artifact is the immutable bundle published as a unit by the trainer:
// one regression forest per telemetry channel plus the feature scaler they
// were fitted with. The format is versioned plain JSON so nothing outside
// this codebase needs a language-specific deserializer.
type Artifact struct {
	Version     string          `json:"version"`
	TrainedAt   time.Time       `json:"trained_at"`
	Scaler      ml.ScalerParams `json:"scaler"`
	Temperature ml.ForestParams `json:"temperature_model"`
	Humidity    ml.ForestParams `json:"humidity_model"`
	AirQuality  ml.ForestParams `json:"air_quality_model"`
}

// SaveArtifact writes the artifact to path, replacing any previous file.
// The write goes through a temp file and rename so a crash mid-write never
// leaves a truncated artifact for the next warm restart.
func SaveArtifact(a *Artifact, path string) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads a previously saved artifact. Callers treat a missing
// file as "no artifact yet", not an error.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact file: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &a, nil
}

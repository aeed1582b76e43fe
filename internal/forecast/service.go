package forecast

import (
	"errors"
	"io/fs"
	"sync/atomic"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// Prediction holds one-step-ahead forecasts for the three channels.
// Regressor outputs are returned unmodified: targets were never scaled
// during training, so there is no inverse transform.
type Prediction struct {
	Temperature float64
	Humidity    float64
	AirQuality  float64
}

// Service holds the currently published model artifact. The artifact slot
// is the only state shared between the ingestion path (readers) and the
// trainer (sole writer); it is swapped atomically so a reader always sees
// a whole artifact, old or new, never a torn one.
type Service struct {
	current atomic.Pointer[Artifact]
	log     *logger.Logger
}

// NewService returns an untrained forecast service.
func NewService(log *logger.Logger) *Service {
	return &Service{log: log}
}

// WarmStart loads the last persisted artifact from path, if one exists.
// A missing file just means the service starts untrained.
func (s *Service) WarmStart(path string) error {
	a, err := LoadArtifact(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Infow("no persisted model artifact, starting untrained", "path", path)
			return nil
		}
		return err
	}
	s.Publish(a)
	s.log.Infow("restored model artifact", "version", a.Version, "trained_at", a.TrainedAt)
	return nil
}

// Publish atomically replaces the current artifact. The previous artifact
// is simply dropped; there is no rollback.
func (s *Service) Publish(a *Artifact) {
	s.current.Store(a)
}

// Available reports whether an artifact has ever been published.
func (s *Service) Available() bool {
	return s.current.Load() != nil
}

// Predict scales the fixed 5-feature vector [temperature, humidity,
// air_quality, hour_of_day, day_of_week] with the artifact's scaler and
// queries the three per-channel regressors. Returns false when no artifact
// has been published yet.
func (s *Service) Predict(sample models.SensorSample, hourOfDay, dayOfWeek int) (Prediction, bool) {
	a := s.current.Load()
	if a == nil {
		return Prediction{}, false
	}

	features := a.Scaler.Transform([]float64{
		sample.Temperature,
		sample.Humidity,
		sample.AirQuality,
		float64(hourOfDay),
		float64(dayOfWeek),
	})

	return Prediction{
		Temperature: a.Temperature.Predict(features),
		Humidity:    a.Humidity.Predict(features),
		AirQuality:  a.AirQuality.Predict(features),
	}, true
}

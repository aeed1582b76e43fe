package training

import (
	"math"
	"math/rand"
	"time"

	"climate-backend/internal/models"
)

// GenerateSamples produces synthetic history for cold-start bootstrapping:
// sinusoidal daily patterns plus Gaussian noise, clamped to plausible
// ranges. Temperature peaks midday, humidity peaks at night, air quality
// worsens during peak hours. Samples are returned sorted ascending, ending
// at end.
func GenerateSamples(days, readingsPerHour int, end time.Time, seed int64) []models.SensorSample {
	rng := rand.New(rand.NewSource(seed))
	step := time.Duration(60/readingsPerHour) * time.Minute

	total := days * 24 * readingsPerHour
	samples := make([]models.SensorSample, 0, total)
	for i := total - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(i) * step)
		hour := float64(ts.Hour())

		baseTemp := 22 + 5*math.Sin(math.Pi*hour/12)
		temp := clamp(baseTemp+rng.NormFloat64(), 15, 30)

		baseHumid := 50 + 10*math.Sin(math.Pi*(hour+18)/12)
		humid := clamp(baseHumid+3*rng.NormFloat64(), 30, 70)

		baseAir := 500 + 100*math.Sin(math.Pi*hour/12)
		air := clamp(baseAir+50*rng.NormFloat64(), 300, 800)

		samples = append(samples, models.SensorSample{
			Temperature: temp,
			Humidity:    humid,
			AirQuality:  air,
			Timestamp:   ts,
		})
	}
	return samples
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

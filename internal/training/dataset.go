package training

import (
	"time"

	"climate-backend/internal/models"
)

// Lookahead is the training target horizon in samples: 6 samples ahead,
// about one hour at the 10-minute sampling cadence.
const Lookahead = 6

// Dataset is a lookahead-labeled training set: the feature vector at index
// i is paired with the channel readings Lookahead samples later.
type Dataset struct {
	Features    [][]float64
	Temperature []float64
	Humidity    []float64
	AirQuality  []float64
}

// Len returns the number of examples.
func (d Dataset) Len() int { return len(d.Features) }

// TimeFeatures derives the model's calendar features from a timestamp.
// Day of week is Monday=0 through Sunday=6, matching the encoding the
// models have always been trained with.
func TimeFeatures(ts time.Time) (hourOfDay, dayOfWeek int) {
	return ts.Hour(), (int(ts.Weekday()) + 6) % 7
}

// FeatureVector builds the fixed 5-feature input for one sample.
func FeatureVector(s models.SensorSample) []float64 {
	hour, dow := TimeFeatures(s.Timestamp)
	return []float64{s.Temperature, s.Humidity, s.AirQuality, float64(hour), float64(dow)}
}

// BuildDataset pairs each sample's features with the readings Lookahead
// positions later. Samples must already be sorted by timestamp ascending.
// The trailing Lookahead samples have no target and produce no example.
func BuildDataset(samples []models.SensorSample) Dataset {
	n := len(samples) - Lookahead
	if n <= 0 {
		return Dataset{}
	}

	d := Dataset{
		Features:    make([][]float64, 0, n),
		Temperature: make([]float64, 0, n),
		Humidity:    make([]float64, 0, n),
		AirQuality:  make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		target := samples[i+Lookahead]
		d.Features = append(d.Features, FeatureVector(samples[i]))
		d.Temperature = append(d.Temperature, target.Temperature)
		d.Humidity = append(d.Humidity, target.Humidity)
		d.AirQuality = append(d.AirQuality, target.AirQuality)
	}
	return d
}

// Subset selects the rows at the given indices.
func (d Dataset) Subset(rows []int) Dataset {
	out := Dataset{
		Features:    make([][]float64, 0, len(rows)),
		Temperature: make([]float64, 0, len(rows)),
		Humidity:    make([]float64, 0, len(rows)),
		AirQuality:  make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		out.Features = append(out.Features, d.Features[r])
		out.Temperature = append(out.Temperature, d.Temperature[r])
		out.Humidity = append(out.Humidity, d.Humidity[r])
		out.AirQuality = append(out.AirQuality, d.AirQuality[r])
	}
	return out
}

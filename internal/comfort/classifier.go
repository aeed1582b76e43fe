package comfort

import "climate-backend/internal/models"

// Fixed comfort thresholds. Temperature in °C, humidity in %, air quality
// in PPM where higher is worse.
const (
	HighTempThreshold     = 28.0
	LowTempThreshold      = 18.0
	HighHumidityThreshold = 65.0
	LowHumidityThreshold  = 30.0
	AirQualityThreshold   = 700.0
)

// Classify maps a complete sample to a comfort label and the violated
// thresholds in evaluation order: temperature, then humidity, then air
// quality. Each triggered check overwrites the label, so with multiple
// violations the last-evaluated one determines the final label while every
// reason is still reported.
//
// NOTE: the last-evaluated-wins labeling (e.g. high temperature plus poor
// air yields "poor air" but the reverse order would not exist, humidity
// after temperature flips "uncomfortable" to "uncomfortable" harmlessly)
// is preserved behavior from the deployed rule set, kept for compatibility
// rather than designed as a priority scheme.
func Classify(s models.SensorSample) models.ComfortResult {
	level := models.Comfortable
	var reasons []models.Reason

	// Temperature checks
	if s.Temperature > HighTempThreshold {
		level = models.Uncomfortable
		reasons = append(reasons, models.ReasonHighTemperature)
	} else if s.Temperature < LowTempThreshold {
		level = models.Uncomfortable
		reasons = append(reasons, models.ReasonLowTemperature)
	}

	// Humidity checks
	if s.Humidity > HighHumidityThreshold {
		level = models.Uncomfortable
		reasons = append(reasons, models.ReasonHighHumidity)
	} else if s.Humidity < LowHumidityThreshold {
		level = models.Uncomfortable
		reasons = append(reasons, models.ReasonLowHumidity)
	}

	// Air quality check
	if s.AirQuality > AirQualityThreshold {
		level = models.PoorAir
		reasons = append(reasons, models.ReasonPoorAirQuality)
	}

	return models.ComfortResult{Level: level, Reasons: reasons}
}

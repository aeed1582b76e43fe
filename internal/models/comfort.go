package models

// ComfortLevel is the categorical assessment of current conditions.
type ComfortLevel string

const (
	Comfortable   ComfortLevel = "comfortable"
	Uncomfortable ComfortLevel = "uncomfortable"
	PoorAir       ComfortLevel = "poor air"
)

// Reason names a violated comfort threshold. The string values are the
// wire/storage values and must not change.
type Reason string

const (
	ReasonHighTemperature Reason = "high temperature"
	ReasonLowTemperature  Reason = "low temperature"
	ReasonHighHumidity    Reason = "high humidity"
	ReasonLowHumidity     Reason = "low humidity"
	ReasonPoorAirQuality  Reason = "poor air quality"
)

// ComfortResult is the classifier output: a label plus the violated
// thresholds in evaluation order (temperature, humidity, air quality).
type ComfortResult struct {
	Level   ComfortLevel `json:"comfort_level"`
	Reasons []Reason     `json:"comfort_reasons"`
}

package models

import "time"

// DeviceState is the literal payload published on device control topics.
type DeviceState string

const (
	StateOn  DeviceState = "ON"
	StateOff DeviceState = "OFF"
)

// Device identifies one of the three controllable actuators.
type Device string

const (
	DeviceAC           Device = "ac"
	DevicePurifier     Device = "purifier"
	DeviceDehumidifier Device = "dehumidifier"
)

// DeviceStateSet is the desired state of every actuator. Owned by the
// actuator controller; everyone else gets copies.
type DeviceStateSet struct {
	AC           DeviceState `json:"ac"`
	Purifier     DeviceState `json:"purifier"`
	Dehumidifier DeviceState `json:"dehumidifier"`
}

// AllOff returns the initial all-OFF state set.
func AllOff() DeviceStateSet {
	return DeviceStateSet{AC: StateOff, Purifier: StateOff, Dehumidifier: StateOff}
}

// Command is one actuator state change to publish.
type Command struct {
	Device Device
	State  DeviceState
}

// PredictionRecord is written once per completed sample: forecast values
// (or the sample's own readings when no model is published yet) combined
// with the classification and the actuator states that resulted from it.
type PredictionRecord struct {
	TemperaturePred   float64      `json:"temperature_pred"`
	HumidityPred      float64      `json:"humidity_pred"`
	AirQualityPred    float64      `json:"air_quality_pred"`
	ComfortLevel      ComfortLevel `json:"comfort_level"`
	ComfortReasons    []Reason     `json:"comfort_reasons"`
	ACState           DeviceState  `json:"ac_state"`
	PurifierState     DeviceState  `json:"purifier_state"`
	DehumidifierState DeviceState  `json:"dehumidifier_state"`
	Timestamp         time.Time    `json:"timestamp"`
}

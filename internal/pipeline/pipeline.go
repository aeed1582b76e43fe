package pipeline

import (
	"context"
	"time"

	"climate-backend/internal/actuator"
	"climate-backend/internal/aggregator"
	"climate-backend/internal/comfort"
	"climate-backend/internal/forecast"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
	"climate-backend/internal/training"
)

// Store persists raw samples and per-sample prediction records.
// Implemented by the ClickHouse store.
type Store interface {
	InsertSample(ctx context.Context, s models.SensorSample) error
	InsertPrediction(ctx context.Context, r models.PredictionRecord) error
}

// Pipeline is the per-sample orchestrator: aggregate, persist, classify,
// drive actuators, forecast, persist the prediction record. It owns the
// single consumer goroutine for telemetry events, which keeps per-sample
// ordering and makes the actuator controller effectively single-writer.
type Pipeline struct {
	agg        *aggregator.Aggregator
	controller *actuator.Controller
	forecasts  *forecast.Service
	store      Store
	commands   chan<- models.Command
	log        *logger.Logger
}

// New wires the pipeline. Emitted actuator commands are pushed onto the
// commands channel, drained by the MQTT publisher.
func New(
	agg *aggregator.Aggregator,
	controller *actuator.Controller,
	forecasts *forecast.Service,
	store Store,
	commands chan<- models.Command,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		agg:        agg,
		controller: controller,
		forecasts:  forecasts,
		store:      store,
		commands:   commands,
		log:        log,
	}
}

// Run consumes telemetry events one at a time until the context is
// cancelled or the channel closes. Each completed sample is processed
// synchronously before the next event is read, so a slow storage write
// delays later samples but never reorders them.
func (p *Pipeline) Run(ctx context.Context, events <-chan models.TelemetryEvent) {
	p.log.Infow("decision pipeline started")
	for {
		select {
		case <-ctx.Done():
			p.log.Infow("decision pipeline stopped")
			return
		case ev, ok := <-events:
			if !ok {
				p.log.Infow("telemetry channel closed, pipeline stopping")
				return
			}
			sample, complete := p.agg.Ingest(ev.Channel, ev.Value, ev.Timestamp)
			if !complete {
				continue
			}
			p.Process(ctx, sample)
		}
	}
}

// Process runs the decision path for one completed sample. Persistence
// failures are logged and do not stop classification or actuation; the
// control loop must keep driving devices even when storage is down.
func (p *Pipeline) Process(ctx context.Context, sample models.SensorSample) {
	if err := p.store.InsertSample(ctx, sample); err != nil {
		p.log.Errorw("failed to persist sensor sample", "err", err)
	}

	result := comfort.Classify(sample)
	if result.Level != models.Comfortable {
		p.log.Infow("discomfort detected", "level", result.Level, "reasons", result.Reasons)
	}

	next := actuator.Decide(result.Reasons)
	for _, cmd := range p.controller.Emit(next) {
		p.sendCommand(cmd)
	}

	hour, dayOfWeek := training.TimeFeatures(sample.Timestamp)
	pred, ok := p.forecasts.Predict(sample, hour, dayOfWeek)
	if !ok {
		// Degraded mode before the first artifact: echo current readings.
		pred = forecast.Prediction{
			Temperature: sample.Temperature,
			Humidity:    sample.Humidity,
			AirQuality:  sample.AirQuality,
		}
	}

	states := p.controller.States()
	record := models.PredictionRecord{
		TemperaturePred:   pred.Temperature,
		HumidityPred:      pred.Humidity,
		AirQualityPred:    pred.AirQuality,
		ComfortLevel:      result.Level,
		ComfortReasons:    result.Reasons,
		ACState:           states.AC,
		PurifierState:     states.Purifier,
		DehumidifierState: states.Dehumidifier,
		Timestamp:         sample.Timestamp,
	}
	if err := p.store.InsertPrediction(ctx, record); err != nil {
		p.log.Errorw("failed to persist prediction record", "err", err)
	}
}

func (p *Pipeline) sendCommand(cmd models.Command) {
	select {
	case p.commands <- cmd:
	case <-time.After(1 * time.Second):
		p.log.Warnw("command channel full, dropping actuator command",
			"device", cmd.Device, "state", cmd.State)
	}
}

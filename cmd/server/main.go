package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"climate-backend/internal/actuator"
	"climate-backend/internal/aggregator"
	"climate-backend/internal/api"
	"climate-backend/internal/database"
	"climate-backend/internal/forecast"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
	"climate-backend/internal/mqtt"
	"climate-backend/internal/pipeline"
	"climate-backend/internal/training"
	"climate-backend/pkg/config"
)

func main() {
	cfg := config.Load()
	log := logger.Get(cfg.LogLevel)
	log.Infow("starting climate backend service")

	// === ClickHouse ===
	db, err := database.NewClickHouseDB(
		cfg.ClickHouseAddr,
		cfg.ClickHouseDB,
		cfg.ClickHouseUser,
		cfg.ClickHousePass,
		log,
	)
	if err != nil {
		log.Fatalw("failed to initialize ClickHouse", "err", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Channel Creation ===
	// Telemetry flows MQTT → pipeline; commands flow pipeline → MQTT.
	events := make(chan models.TelemetryEvent, 100)
	commands := make(chan models.Command, 50)

	// === MQTT ===
	log.Infow("connecting to MQTT broker", "broker", cfg.MQTTBroker)
	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	}, log)
	if err != nil {
		log.Fatalw("failed to initialize MQTT client", "err", err)
	}
	defer mqttClient.Close()

	subscriber := mqtt.NewSubscriber(
		mqttClient.GetNativeClient(),
		mqtt.SubscriberConfig{
			TemperatureTopic: cfg.MQTTTopicTemperature,
			HumidityTopic:    cfg.MQTTTopicHumidity,
			AirQualityTopic:  cfg.MQTTTopicAirQuality,
		},
		events,
		log,
	)
	if err := subscriber.SubscribeAll(); err != nil {
		log.Fatalw("failed to subscribe to MQTT topics", "err", err)
	}

	publisher := mqtt.NewPublisher(
		mqttClient.GetNativeClient(),
		mqtt.PublisherConfig{
			ACTopic:           cfg.MQTTTopicAC,
			PurifierTopic:     cfg.MQTTTopicPurifier,
			DehumidifierTopic: cfg.MQTTTopicDehumidifier,
		},
		commands,
		log,
	)
	go publisher.Start(ctx)

	// === Forecast service ===
	forecasts := forecast.NewService(log)
	if err := forecasts.WarmStart(cfg.ArtifactPath); err != nil {
		log.Warnw("could not restore model artifact, starting cold", "err", err)
	}

	// === Processing pipeline ===
	proc := pipeline.New(
		aggregator.New(),
		actuator.NewController(),
		forecasts,
		db,
		commands,
		log,
	)
	go proc.Run(ctx, events)

	// === Trainer ===
	trainer := training.NewTrainer(db, forecasts, training.Config{
		Interval:     cfg.RetrainInterval,
		Window:       cfg.TrainingWindow,
		MinSamples:   cfg.MinSamples,
		Trees:        cfg.TreeCount,
		ArtifactPath: cfg.ArtifactPath,
	}, log)
	if err := trainer.Start(ctx); err != nil {
		log.Fatalw("failed to start trainer", "err", err)
	}
	defer trainer.Stop()

	// === Query API ===
	handler := api.NewHandler(db, log)
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.InitRoutes(),
	}
	go func() {
		log.Infow("query API listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("query API failed", "err", err)
		}
	}()

	log.Infow("climate backend service is running",
		"temperature_topic", cfg.MQTTTopicTemperature,
		"humidity_topic", cfg.MQTTTopicHumidity,
		"air_quality_topic", cfg.MQTTTopicAirQuality,
		"retrain_interval", cfg.RetrainInterval,
	)

	// === Wait for interrupt signal ===
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("query API shutdown error", "err", err)
	}

	// Give the pipeline and publisher time to drain.
	time.Sleep(1 * time.Second)
	log.Infow("shutdown complete")
}

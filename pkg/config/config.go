package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Logging
	LogLevel string

	// MQTT Configuration
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	// Inbound sensor topics
	MQTTTopicTemperature string
	MQTTTopicHumidity    string
	MQTTTopicAirQuality  string

	// Outbound device control topics
	MQTTTopicAC           string
	MQTTTopicPurifier     string
	MQTTTopicDehumidifier string

	// ClickHouse Configuration
	ClickHouseAddr string
	ClickHouseDB   string
	ClickHouseUser string
	ClickHousePass string

	// Model artifact storage
	ArtifactPath string

	// Training configuration
	RetrainInterval time.Duration
	TrainingWindow  time.Duration
	MinSamples      int
	TreeCount       int

	// Read-only query API
	HTTPPort string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// MQTT Configuration
		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "climate-backend"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		// Sensor topics
		MQTTTopicTemperature: getEnv("MQTT_TOPIC_TEMPERATURE", "home/sensors/temperature"),
		MQTTTopicHumidity:    getEnv("MQTT_TOPIC_HUMIDITY", "home/sensors/humidity"),
		MQTTTopicAirQuality:  getEnv("MQTT_TOPIC_AIR_QUALITY", "home/sensors/air_quality"),

		// Device control topics
		MQTTTopicAC:           getEnv("MQTT_TOPIC_AC", "home/devices/ac"),
		MQTTTopicPurifier:     getEnv("MQTT_TOPIC_PURIFIER", "home/devices/purifier"),
		MQTTTopicDehumidifier: getEnv("MQTT_TOPIC_DEHUMIDIFIER", "home/devices/dehumidifier"),

		// ClickHouse Configuration
		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "iot_monitoring"),
		ClickHouseUser: getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePass: getEnv("CLICKHOUSE_PASS", ""),

		// Model artifact storage
		ArtifactPath: getEnv("ARTIFACT_PATH", "models/artifact.json"),

		// Training configuration
		RetrainInterval: getEnvDuration("RETRAIN_INTERVAL", 6*time.Hour),
		TrainingWindow:  getEnvDuration("TRAINING_WINDOW", 72*time.Hour),
		MinSamples:      getEnvInt("MIN_TRAINING_SAMPLES", 24),
		TreeCount:       getEnvInt("FOREST_TREES", 50),

		// Query API
		HTTPPort: getEnv("HTTP_PORT", "8000"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as duration, using default: %v", key, err)
		return defaultValue
	}
	return d
}

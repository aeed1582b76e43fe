package database

// SQL schemas for all ClickHouse tables

const (
	// SensorSamplesTableSQL creates the append-only raw samples table.
	SensorSamplesTableSQL = `
		CREATE TABLE IF NOT EXISTS sensor_samples (
			timestamp DateTime64(3),
			temperature Float64,
			humidity Float64,
			air_quality Float64
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`

	// PredictionsTableSQL creates the append-only prediction records table.
	PredictionsTableSQL = `
		CREATE TABLE IF NOT EXISTS predictions (
			timestamp DateTime64(3),
			temperature_pred Float64,
			humidity_pred Float64,
			air_quality_pred Float64,
			comfort_level String,
			comfort_reasons Array(String),
			ac_state String,
			purifier_state String,
			dehumidifier_state String
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`
)

// AllTables returns all table creation SQL statements.
func AllTables() []string {
	return []string{
		SensorSamplesTableSQL,
		PredictionsTableSQL,
	}
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// ClickHouseDB persists raw sensor samples and prediction records and
// serves the time-range queries used by the trainer and the read API.
type ClickHouseDB struct {
	conn driver.Conn
	log  *logger.Logger
}

// NewClickHouseDB opens a connection and ensures the schema exists.
func NewClickHouseDB(addr, database, username, password string, log *logger.Logger) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Infow("connected to ClickHouse", "addr", addr, "database", database)

	db := &ClickHouseDB{conn: conn, log: log}
	if err := db.InitSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// InitSchema creates the necessary tables if they don't exist.
func (db *ClickHouseDB) InitSchema() error {
	ctx := context.Background()
	for _, tableSQL := range AllTables() {
		if err := db.conn.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	db.log.Infow("database schema initialized")
	return nil
}

// InsertSample appends one raw sensor sample.
func (db *ClickHouseDB) InsertSample(ctx context.Context, s models.SensorSample) error {
	query := `
		INSERT INTO sensor_samples (timestamp, temperature, humidity, air_quality)
		VALUES (?, ?, ?, ?)
	`
	if err := db.conn.Exec(ctx, query, s.Timestamp, s.Temperature, s.Humidity, s.AirQuality); err != nil {
		return fmt.Errorf("failed to insert sensor sample: %w", err)
	}
	return nil
}

// InsertPrediction appends one prediction record.
func (db *ClickHouseDB) InsertPrediction(ctx context.Context, r models.PredictionRecord) error {
	query := `
		INSERT INTO predictions
			(timestamp, temperature_pred, humidity_pred, air_quality_pred,
			 comfort_level, comfort_reasons, ac_state, purifier_state, dehumidifier_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := db.conn.Exec(ctx, query,
		r.Timestamp,
		r.TemperaturePred,
		r.HumidityPred,
		r.AirQualityPred,
		string(r.ComfortLevel),
		reasonsToStrings(r.ComfortReasons),
		string(r.ACState),
		string(r.PurifierState),
		string(r.DehumidifierState),
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction record: %w", err)
	}
	return nil
}

// SamplesInRange returns raw samples in [from, to], timestamp ascending.
func (db *ClickHouseDB) SamplesInRange(ctx context.Context, from, to time.Time) ([]models.SensorSample, error) {
	query := `
		SELECT timestamp, temperature, humidity, air_quality
		FROM sensor_samples
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`
	rows, err := db.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensor samples: %w", err)
	}
	defer rows.Close()

	var out []models.SensorSample
	for rows.Next() {
		var s models.SensorSample
		if err := rows.Scan(&s.Timestamp, &s.Temperature, &s.Humidity, &s.AirQuality); err != nil {
			return nil, fmt.Errorf("failed to scan sensor sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AllSamples returns the entire stored history, timestamp ascending. Used
// by the bootstrap training CLI.
func (db *ClickHouseDB) AllSamples(ctx context.Context) ([]models.SensorSample, error) {
	query := `
		SELECT timestamp, temperature, humidity, air_quality
		FROM sensor_samples
		ORDER BY timestamp ASC
	`
	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensor samples: %w", err)
	}
	defer rows.Close()

	var out []models.SensorSample
	for rows.Next() {
		var s models.SensorSample
		if err := rows.Scan(&s.Timestamp, &s.Temperature, &s.Humidity, &s.AirQuality); err != nil {
			return nil, fmt.Errorf("failed to scan sensor sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestSample returns the most recent raw sample, or ok=false when the
// table is empty.
func (db *ClickHouseDB) LatestSample(ctx context.Context) (models.SensorSample, bool, error) {
	query := `
		SELECT timestamp, temperature, humidity, air_quality
		FROM sensor_samples
		ORDER BY timestamp DESC
		LIMIT 1
	`
	var s models.SensorSample
	row := db.conn.QueryRow(ctx, query)
	if err := row.Scan(&s.Timestamp, &s.Temperature, &s.Humidity, &s.AirQuality); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SensorSample{}, false, nil
		}
		return models.SensorSample{}, false, fmt.Errorf("failed to query latest sample: %w", err)
	}
	return s, true, nil
}

// PredictionsInRange returns prediction records in [from, to], ascending.
func (db *ClickHouseDB) PredictionsInRange(ctx context.Context, from, to time.Time) ([]models.PredictionRecord, error) {
	query := `
		SELECT timestamp, temperature_pred, humidity_pred, air_quality_pred,
		       comfort_level, comfort_reasons, ac_state, purifier_state, dehumidifier_state
		FROM predictions
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`
	rows, err := db.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionRecord
	for rows.Next() {
		r, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestPrediction returns the most recent prediction record, or ok=false
// when none has been written yet.
func (db *ClickHouseDB) LatestPrediction(ctx context.Context) (models.PredictionRecord, bool, error) {
	query := `
		SELECT timestamp, temperature_pred, humidity_pred, air_quality_pred,
		       comfort_level, comfort_reasons, ac_state, purifier_state, dehumidifier_state
		FROM predictions
		ORDER BY timestamp DESC
		LIMIT 1
	`
	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return models.PredictionRecord{}, false, fmt.Errorf("failed to query latest prediction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return models.PredictionRecord{}, false, rows.Err()
	}
	r, err := scanPrediction(rows)
	if err != nil {
		return models.PredictionRecord{}, false, err
	}
	return r, true, nil
}

// ChannelAverages holds per-channel means over a time range.
type ChannelAverages struct {
	Temperature float64 `json:"avg_temperature"`
	Humidity    float64 `json:"avg_humidity"`
	AirQuality  float64 `json:"avg_air_quality"`
}

// Averages computes per-channel means over [from, to]; ok=false when the
// range holds no samples.
func (db *ClickHouseDB) Averages(ctx context.Context, from, to time.Time) (ChannelAverages, bool, error) {
	query := `
		SELECT avg(temperature), avg(humidity), avg(air_quality), count(*)
		FROM sensor_samples
		WHERE timestamp >= ? AND timestamp <= ?
	`
	var a ChannelAverages
	var count uint64
	row := db.conn.QueryRow(ctx, query, from, to)
	if err := row.Scan(&a.Temperature, &a.Humidity, &a.AirQuality, &count); err != nil {
		return ChannelAverages{}, false, fmt.Errorf("failed to compute averages: %w", err)
	}
	if count == 0 {
		return ChannelAverages{}, false, nil
	}
	return a, true, nil
}

// Close closes the ClickHouse connection.
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		if err := db.conn.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		db.log.Infow("ClickHouse connection closed")
	}
	return nil
}

func scanPrediction(rows driver.Rows) (models.PredictionRecord, error) {
	var r models.PredictionRecord
	var level, ac, purifier, dehumidifier string
	var reasons []string
	err := rows.Scan(
		&r.Timestamp,
		&r.TemperaturePred,
		&r.HumidityPred,
		&r.AirQualityPred,
		&level,
		&reasons,
		&ac,
		&purifier,
		&dehumidifier,
	)
	if err != nil {
		return models.PredictionRecord{}, fmt.Errorf("failed to scan prediction record: %w", err)
	}
	r.ComfortLevel = models.ComfortLevel(level)
	r.ComfortReasons = stringsToReasons(reasons)
	r.ACState = models.DeviceState(ac)
	r.PurifierState = models.DeviceState(purifier)
	r.DehumidifierState = models.DeviceState(dehumidifier)
	return r, nil
}

func reasonsToStrings(reasons []models.Reason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}

func stringsToReasons(strs []string) []models.Reason {
	out := make([]models.Reason, len(strs))
	for i, s := range strs {
		out[i] = models.Reason(s)
	}
	return out
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"climate-backend/internal/database"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// Store is the read-only view of persisted history the API serves from.
// It performs no writes; the ClickHouse store implements it.
type Store interface {
	LatestSample(ctx context.Context) (models.SensorSample, bool, error)
	LatestPrediction(ctx context.Context) (models.PredictionRecord, bool, error)
	SamplesInRange(ctx context.Context, from, to time.Time) ([]models.SensorSample, error)
	PredictionsInRange(ctx context.Context, from, to time.Time) ([]models.PredictionRecord, error)
	Averages(ctx context.Context, from, to time.Time) (database.ChannelAverages, bool, error)
}

// Handler serves the dashboard's read-only query endpoints.
type Handler struct {
	store Store
	log   *logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// InitRoutes builds the gin engine with all query routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", h.root)
	api := router.Group("/api")
	{
		api.GET("/latest-data", h.latestData)
		api.GET("/historical-data", h.historicalData)
		api.GET("/comfort-history", h.comfortHistory)
		api.GET("/device-status", h.deviceStatus)
		api.GET("/dashboard-summary", h.dashboardSummary)
	}
	return router
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "climate monitoring API is running"})
}

// combinedLatest merges the newest sample with the newest prediction
// record into one flat document for the dashboard header.
type combinedLatest struct {
	Temperature       float64             `json:"temperature"`
	Humidity          float64             `json:"humidity"`
	AirQuality        float64             `json:"air_quality"`
	TemperaturePred   float64             `json:"temperature_pred"`
	HumidityPred      float64             `json:"humidity_pred"`
	AirQualityPred    float64             `json:"air_quality_pred"`
	ComfortLevel      models.ComfortLevel `json:"comfort_level"`
	ComfortReasons    []models.Reason     `json:"comfort_reasons"`
	ACState           models.DeviceState  `json:"ac_state"`
	PurifierState     models.DeviceState  `json:"purifier_state"`
	DehumidifierState models.DeviceState  `json:"dehumidifier_state"`
	Timestamp         time.Time           `json:"timestamp"`
}

func (h *Handler) latestData(c *gin.Context) {
	sample, ok, err := h.store.LatestSample(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load latest sample", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sensor data found"})
		return
	}

	prediction, found, err := h.store.LatestPrediction(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load latest prediction", err)
		return
	}
	if !found {
		// No prediction record yet: echo the current readings with every
		// device off, same degraded shape the pipeline would produce.
		prediction = fallbackPrediction(sample)
	}

	c.JSON(http.StatusOK, combinedLatest{
		Temperature:       sample.Temperature,
		Humidity:          sample.Humidity,
		AirQuality:        sample.AirQuality,
		TemperaturePred:   prediction.TemperaturePred,
		HumidityPred:      prediction.HumidityPred,
		AirQualityPred:    prediction.AirQualityPred,
		ComfortLevel:      prediction.ComfortLevel,
		ComfortReasons:    reasonsOrEmpty(prediction.ComfortReasons),
		ACState:           prediction.ACState,
		PurifierState:     prediction.PurifierState,
		DehumidifierState: prediction.DehumidifierState,
		Timestamp:         prediction.Timestamp,
	})
}

func (h *Handler) historicalData(c *gin.Context) {
	hours := intQuery(c, "hours", 24)
	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	samples, err := h.store.SamplesInRange(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "failed to load historical data", err)
		return
	}

	samples = Downsample(samples, maxChartPoints)
	if samples == nil {
		samples = []models.SensorSample{}
	}
	c.JSON(http.StatusOK, samples)
}

func (h *Handler) comfortHistory(c *gin.Context) {
	days := intQuery(c, "days", 7)
	to := time.Now()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)

	records, err := h.store.PredictionsInRange(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "failed to load comfort history", err)
		return
	}

	records = Downsample(records, maxChartPoints)
	if records == nil {
		records = []models.PredictionRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) deviceStatus(c *gin.Context) {
	prediction, found, err := h.store.LatestPrediction(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load device status", err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{
			"ac":           models.StateOff,
			"purifier":     models.StateOff,
			"dehumidifier": models.StateOff,
			"last_updated": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ac":           prediction.ACState,
		"purifier":     prediction.PurifierState,
		"dehumidifier": prediction.DehumidifierState,
		"last_updated": prediction.Timestamp,
	})
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	ctx := c.Request.Context()

	sample, ok, err := h.store.LatestSample(ctx)
	if err != nil {
		h.fail(c, "failed to load latest sample", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sensor data found"})
		return
	}

	prediction, found, err := h.store.LatestPrediction(ctx)
	if err != nil {
		h.fail(c, "failed to load latest prediction", err)
		return
	}

	now := time.Now()
	averages, haveAvg, err := h.store.Averages(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		h.fail(c, "failed to compute averages", err)
		return
	}
	if !haveAvg {
		averages = database.ChannelAverages{
			Temperature: sample.Temperature,
			Humidity:    sample.Humidity,
			AirQuality:  sample.AirQuality,
		}
	}

	devices := models.AllOff()
	var predictionBody any
	if found {
		devices = models.DeviceStateSet{
			AC:           prediction.ACState,
			Purifier:     prediction.PurifierState,
			Dehumidifier: prediction.DehumidifierState,
		}
		predictionBody = prediction
	}

	c.JSON(http.StatusOK, gin.H{
		"current": gin.H{
			"temperature": sample.Temperature,
			"humidity":    sample.Humidity,
			"air_quality": sample.AirQuality,
			"timestamp":   sample.Timestamp,
		},
		"prediction": predictionBody,
		"averages":   averages,
		"devices":    devices,
	})
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.log.Errorw(msg, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func fallbackPrediction(sample models.SensorSample) models.PredictionRecord {
	return models.PredictionRecord{
		TemperaturePred:   sample.Temperature,
		HumidityPred:      sample.Humidity,
		AirQualityPred:    sample.AirQuality,
		ComfortLevel:      models.Comfortable,
		ComfortReasons:    nil,
		ACState:           models.StateOff,
		PurifierState:     models.StateOff,
		DehumidifierState: models.StateOff,
		Timestamp:         sample.Timestamp,
	}
}

func reasonsOrEmpty(reasons []models.Reason) []models.Reason {
	if reasons == nil {
		return []models.Reason{}
	}
	return reasons
}

func intQuery(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

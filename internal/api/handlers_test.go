package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"climate-backend/internal/database"
	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	sample        models.SensorSample
	haveSample    bool
	prediction    models.PredictionRecord
	havePred      bool
	samples       []models.SensorSample
	predictions   []models.PredictionRecord
	averages      database.ChannelAverages
	haveAverages  bool
	err           error
	lastSamplesAt struct{ from, to time.Time }
}

func (f *fakeStore) LatestSample(ctx context.Context) (models.SensorSample, bool, error) {
	return f.sample, f.haveSample, f.err
}

func (f *fakeStore) LatestPrediction(ctx context.Context) (models.PredictionRecord, bool, error) {
	return f.prediction, f.havePred, f.err
}

func (f *fakeStore) SamplesInRange(ctx context.Context, from, to time.Time) ([]models.SensorSample, error) {
	f.lastSamplesAt.from, f.lastSamplesAt.to = from, to
	return f.samples, f.err
}

func (f *fakeStore) PredictionsInRange(ctx context.Context, from, to time.Time) ([]models.PredictionRecord, error) {
	return f.predictions, f.err
}

func (f *fakeStore) Averages(ctx context.Context, from, to time.Time) (database.ChannelAverages, bool, error) {
	return f.averages, f.haveAverages, f.err
}

func serve(t *testing.T, store *fakeStore, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(store, logger.Get(logger.ErrorLevel))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	h.InitRoutes().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestLatestData_CombinesSampleAndPrediction(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		sample:     models.SensorSample{Temperature: 29.5, Humidity: 40, AirQuality: 450, Timestamp: now},
		haveSample: true,
		prediction: models.PredictionRecord{
			TemperaturePred: 31.2,
			HumidityPred:    42,
			AirQualityPred:  480,
			ComfortLevel:    models.Uncomfortable,
			ComfortReasons:  []models.Reason{models.ReasonHighTemperature},
			ACState:         models.StateOn,
			PurifierState:   models.StateOff,
			Timestamp:       now,
		},
		havePred: true,
	}

	w := serve(t, store, http.MethodGet, "/api/latest-data")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body combinedLatest
	decodeBody(t, w, &body)
	if body.Temperature != 29.5 || body.TemperaturePred != 31.2 {
		t.Fatalf("unexpected merged body: %+v", body)
	}
	if body.ComfortLevel != models.Uncomfortable || body.ACState != models.StateOn {
		t.Fatalf("prediction fields not carried through: %+v", body)
	}
}

func TestLatestData_FallsBackWhenNoPrediction(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		sample:     models.SensorSample{Temperature: 22, Humidity: 50, AirQuality: 400, Timestamp: now},
		haveSample: true,
	}

	w := serve(t, store, http.MethodGet, "/api/latest-data")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body combinedLatest
	decodeBody(t, w, &body)
	if body.TemperaturePred != 22 || body.HumidityPred != 50 || body.AirQualityPred != 400 {
		t.Fatalf("predictions should echo the latest readings: %+v", body)
	}
	if body.ComfortLevel != models.Comfortable || len(body.ComfortReasons) != 0 {
		t.Fatalf("fallback must report comfortable with no reasons: %+v", body)
	}
	if body.ACState != models.StateOff || body.PurifierState != models.StateOff || body.DehumidifierState != models.StateOff {
		t.Fatalf("fallback must report every device off: %+v", body)
	}
}

func TestLatestData_NotFoundWithoutSamples(t *testing.T) {
	w := serve(t, &fakeStore{}, http.MethodGet, "/api/latest-data")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLatestData_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	w := serve(t, store, http.MethodGet, "/api/latest-data")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHistoricalData_DownsamplesAndDefaultsWindow(t *testing.T) {
	base := time.Now().Add(-23 * time.Hour)
	store := &fakeStore{}
	for i := 0; i < 250; i++ {
		store.samples = append(store.samples, models.SensorSample{
			Temperature: 20,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	w := serve(t, store, http.MethodGet, "/api/historical-data")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body []models.SensorSample
	decodeBody(t, w, &body)
	if len(body) > 100 {
		t.Fatalf("expected at most 100 points, got %d", len(body))
	}
	if !body[0].Timestamp.Equal(store.samples[0].Timestamp) {
		t.Fatalf("first returned point must be the oldest stored point")
	}

	window := store.lastSamplesAt.to.Sub(store.lastSamplesAt.from)
	if window != 24*time.Hour {
		t.Fatalf("default window should be 24h, got %v", window)
	}
}

func TestHistoricalData_CustomHours(t *testing.T) {
	store := &fakeStore{}
	w := serve(t, store, http.MethodGet, "/api/historical-data?hours=6")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if window := store.lastSamplesAt.to.Sub(store.lastSamplesAt.from); window != 6*time.Hour {
		t.Fatalf("expected 6h window, got %v", window)
	}
}

func TestHistoricalData_EmptyIsJSONArray(t *testing.T) {
	w := serve(t, &fakeStore{}, http.MethodGet, "/api/historical-data")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestComfortHistory_ReturnsRecords(t *testing.T) {
	store := &fakeStore{
		predictions: []models.PredictionRecord{
			{ComfortLevel: models.Comfortable, Timestamp: time.Now().Add(-time.Hour)},
			{ComfortLevel: models.PoorAir, Timestamp: time.Now()},
		},
	}

	w := serve(t, store, http.MethodGet, "/api/comfort-history?days=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body []models.PredictionRecord
	decodeBody(t, w, &body)
	if len(body) != 2 || body[1].ComfortLevel != models.PoorAir {
		t.Fatalf("unexpected records: %+v", body)
	}
}

func TestDeviceStatus_AllOffWithoutHistory(t *testing.T) {
	w := serve(t, &fakeStore{}, http.MethodGet, "/api/device-status")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	decodeBody(t, w, &body)
	for _, device := range []string{"ac", "purifier", "dehumidifier"} {
		if body[device] != "OFF" {
			t.Fatalf("expected %s OFF, got %v", device, body[device])
		}
	}
}

func TestDeviceStatus_ReflectsLatestRecord(t *testing.T) {
	store := &fakeStore{
		prediction: models.PredictionRecord{
			ACState:           models.StateOn,
			PurifierState:     models.StateOn,
			DehumidifierState: models.StateOff,
			Timestamp:         time.Now(),
		},
		havePred: true,
	}

	w := serve(t, store, http.MethodGet, "/api/device-status")
	var body map[string]any
	decodeBody(t, w, &body)
	if body["ac"] != "ON" || body["purifier"] != "ON" || body["dehumidifier"] != "OFF" {
		t.Fatalf("unexpected status body: %v", body)
	}
}

func TestDashboardSummary_FallsBackToLatestReadings(t *testing.T) {
	store := &fakeStore{
		sample:     models.SensorSample{Temperature: 25, Humidity: 55, AirQuality: 600, Timestamp: time.Now()},
		haveSample: true,
	}

	w := serve(t, store, http.MethodGet, "/api/dashboard-summary")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Averages   database.ChannelAverages `json:"averages"`
		Prediction *models.PredictionRecord `json:"prediction"`
		Devices    models.DeviceStateSet    `json:"devices"`
	}
	decodeBody(t, w, &body)
	if body.Averages.Temperature != 25 || body.Averages.AirQuality != 600 {
		t.Fatalf("averages should fall back to the latest readings: %+v", body.Averages)
	}
	if body.Prediction != nil {
		t.Fatalf("prediction should be null without history, got %+v", body.Prediction)
	}
	if body.Devices != models.AllOff() {
		t.Fatalf("devices should be all off without history, got %+v", body.Devices)
	}
}

func TestDashboardSummary_UsesStoredAverages(t *testing.T) {
	store := &fakeStore{
		sample:       models.SensorSample{Temperature: 25, Timestamp: time.Now()},
		haveSample:   true,
		prediction:   models.PredictionRecord{ACState: models.StateOn, Timestamp: time.Now()},
		havePred:     true,
		averages:     database.ChannelAverages{Temperature: 23.4, Humidity: 48.2, AirQuality: 512},
		haveAverages: true,
	}

	w := serve(t, store, http.MethodGet, "/api/dashboard-summary")
	var body struct {
		Averages database.ChannelAverages `json:"averages"`
		Devices  models.DeviceStateSet    `json:"devices"`
	}
	decodeBody(t, w, &body)
	if body.Averages.Temperature != 23.4 {
		t.Fatalf("expected stored averages, got %+v", body.Averages)
	}
	if body.Devices.AC != models.StateOn {
		t.Fatalf("devices should reflect the latest record, got %+v", body.Devices)
	}
}

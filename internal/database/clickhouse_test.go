package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"climate-backend/internal/logger"
	"climate-backend/internal/models"
)

// fakeConn stubs QueryRow; any other driver.Conn method panics through the
// embedded nil interface, which is fine for these tests.
type fakeConn struct {
	driver.Conn
	row driver.Row
}

func (c *fakeConn) QueryRow(ctx context.Context, query string, args ...any) driver.Row {
	return c.row
}

type fakeRow struct {
	err    error
	sample models.SensorSample
}

func (r *fakeRow) Err() error { return r.err }

func (r *fakeRow) ScanStruct(dest any) error { return r.err }

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*time.Time)) = r.sample.Timestamp
	*(dest[1].(*float64)) = r.sample.Temperature
	*(dest[2].(*float64)) = r.sample.Humidity
	*(dest[3].(*float64)) = r.sample.AirQuality
	return nil
}

func newTestDB(row driver.Row) *ClickHouseDB {
	return &ClickHouseDB{
		conn: &fakeConn{row: row},
		log:  logger.Get(logger.ErrorLevel),
	}
}

func TestLatestSample_EmptyTable(t *testing.T) {
	db := newTestDB(&fakeRow{err: sql.ErrNoRows})

	_, ok, err := db.LatestSample(context.Background())
	if err != nil {
		t.Fatalf("empty table must not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for an empty table")
	}
}

func TestLatestSample_ScanFailureSurfaced(t *testing.T) {
	connErr := errors.New("read: connection reset by peer")
	db := newTestDB(&fakeRow{err: connErr})

	_, ok, err := db.LatestSample(context.Background())
	if err == nil {
		t.Fatal("a connection failure must be returned, not reported as no data")
	}
	if !errors.Is(err, connErr) {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false on failure")
	}
}

func TestLatestSample_ReturnsRow(t *testing.T) {
	want := models.SensorSample{
		Temperature: 24.5,
		Humidity:    48,
		AirQuality:  520,
		Timestamp:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	db := newTestDB(&fakeRow{sample: want})

	got, ok, err := db.LatestSample(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected sample, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

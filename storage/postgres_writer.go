package storage

import (
	"fmt"
	"sync"
	"time"

	"travel-planner/models"
	"travel-planner/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS destinations (
		id              SERIAL PRIMARY KEY,
		run_id          VARCHAR(36)      NOT NULL,
		destination_id  INTEGER          NOT NULL,
		destination_key TEXT             NOT NULL,
		destination     TEXT,
		gps_long        DOUBLE PRECISION,
		gps_lat         DOUBLE PRECISION,
		UNIQUE (run_id, destination_id)
	);

	CREATE TABLE IF NOT EXISTS forecasts (
		id             SERIAL PRIMARY KEY,
		run_id         VARCHAR(36) NOT NULL,
		destination_id INTEGER     NOT NULL,
		destination    TEXT,
		dt_txt         TEXT,
		dt             BIGINT      NOT NULL,
		temp           NUMERIC(6,2),
		temp_min       NUMERIC(6,2),
		temp_max       NUMERIC(6,2),
		pressure       INTEGER,
		humidity       INTEGER,
		weather_main   TEXT,
		weather_descr  TEXT,
		clouds         INTEGER,
		pop            NUMERIC(4,2),
		UNIQUE (run_id, destination_id, dt)
	);

	CREATE TABLE IF NOT EXISTS hotels (
		id             SERIAL PRIMARY KEY,
		run_id         VARCHAR(36) NOT NULL,
		destination_id INTEGER,
		hotel_name     TEXT        NOT NULL,
		url            TEXT        NOT NULL,
		gps_lat        DOUBLE PRECISION,
		gps_long       DOUBLE PRECISION,
		score          NUMERIC(4,2),
		description    TEXT,
		address        TEXT,
		scraped_at     TIMESTAMP   NOT NULL DEFAULT NOW(),
		UNIQUE (run_id, destination_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_hotels_destination ON hotels (destination_id);
	CREATE INDEX IF NOT EXISTS idx_hotels_score       ON hotels (score);
	`

const (
	insertDestination = `
		INSERT INTO destinations (run_id, destination_id, destination_key, destination, gps_long, gps_lat)
		VALUES (:run_id, :destination_id, :destination_key, :destination, :gps_long, :gps_lat)
		ON CONFLICT (run_id, destination_id) DO NOTHING`

	insertForecast = `
		INSERT INTO forecasts (run_id, destination_id, destination, dt_txt, dt, temp, temp_min, temp_max,
			pressure, humidity, weather_main, weather_descr, clouds, pop)
		VALUES (:run_id, :destination_id, :destination, :dt_txt, :dt, :temp, :temp_min, :temp_max,
			:pressure, :humidity, :weather_main, :weather_descr, :clouds, :pop)
		ON CONFLICT (run_id, destination_id, dt) DO NOTHING`

	insertHotel = `
		INSERT INTO hotels (run_id, destination_id, hotel_name, url, gps_lat, gps_long, score,
			description, address, scraped_at)
		VALUES (:run_id, :destination_id, :hotel_name, :url, :gps_lat, :gps_long, :score,
			:description, :address, :scraped_at)
		ON CONFLICT (run_id, destination_id, url) DO NOTHING`
)

type destinationRow struct {
	RunID string `db:"run_id"`
	models.Destination
}

type forecastRow struct {
	RunID string `db:"run_id"`
	models.ForecastRow
}

// hotelRow stores an unresolved destination as NULL, like the empty CSV cell
type hotelRow struct {
	RunID         string    `db:"run_id"`
	DestinationID *int      `db:"destination_id"`
	HotelName     string    `db:"hotel_name"`
	URL           string    `db:"url"`
	Latitude      *float64  `db:"gps_lat"`
	Longitude     *float64  `db:"gps_long"`
	Score         *float64  `db:"score"`
	Description   *string   `db:"description"`
	Address       *string   `db:"address"`
	ScrapedAt     time.Time `db:"scraped_at"`
}

func newHotelRow(runID string, rec models.HotelRecord) hotelRow {
	row := hotelRow{
		RunID:       runID,
		HotelName:   rec.HotelName,
		URL:         rec.URL,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Score:       rec.Score,
		Description: rec.Description,
		Address:     rec.Address,
		ScrapedAt:   time.Now(),
	}
	if rec.DestinationID != models.UnknownDestinationID {
		id := rec.DestinationID
		row.DestinationID = &id
	}
	return row
}

// PostgresWriter stores destinations, forecasts and hotels in PostgreSQL.
// Hotel records are buffered and inserted in one transaction on Flush.
type PostgresWriter struct {
	db     *sqlx.DB
	runID  string
	logger *utils.Logger

	mu      sync.Mutex
	pending []hotelRow
}

// NewPostgresWriter connects and pings the DB
func NewPostgresWriter(connStr, runID string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	logger.Info("Connected to PostgreSQL successfully")
	return NewPostgresWriterFromDB(db, runID, logger), nil
}

// NewPostgresWriterFromDB wraps an existing connection
func NewPostgresWriterFromDB(db *sqlx.DB, runID string, logger *utils.Logger) *PostgresWriter {
	return &PostgresWriter{db: db, runID: runID, logger: logger}
}

// CreateTables creates the tables if they don't exist, with indexes
func (w *PostgresWriter) CreateTables() error {
	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	w.logger.Info("Tables 'destinations', 'forecasts', 'hotels' are ready")
	return nil
}

// SaveDestinations inserts destinations in a single transaction
func (w *PostgresWriter) SaveDestinations(destinations []models.Destination) error {
	rows := make([]interface{}, 0, len(destinations))
	for _, d := range destinations {
		rows = append(rows, destinationRow{RunID: w.runID, Destination: d})
	}
	n, err := w.batchInsert(insertDestination, rows)
	if err != nil {
		return err
	}
	w.logger.Info("Inserted %d/%d destinations into PostgreSQL", n, len(destinations))
	return nil
}

// SaveForecasts inserts forecast rows in a single transaction
func (w *PostgresWriter) SaveForecasts(forecasts []models.ForecastRow) error {
	rows := make([]interface{}, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, forecastRow{RunID: w.runID, ForecastRow: f})
	}
	n, err := w.batchInsert(insertForecast, rows)
	if err != nil {
		return err
	}
	w.logger.Info("Inserted %d/%d forecasts into PostgreSQL", n, len(forecasts))
	return nil
}

// WriteRecord buffers a hotel record until Flush
func (w *PostgresWriter) WriteRecord(rec models.HotelRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, newHotelRow(w.runID, rec))
	return nil
}

// Flush inserts the buffered hotel records, skipping duplicates
func (w *PostgresWriter) Flush() error {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	rows := make([]interface{}, 0, len(pending))
	for _, r := range pending {
		rows = append(rows, r)
	}
	n, err := w.batchInsert(insertHotel, rows)
	if err != nil {
		return err
	}
	w.logger.Info("Inserted %d/%d hotels into PostgreSQL", n, len(pending))
	return nil
}

// Close flushes pending hotels and closes the database connection
func (w *PostgresWriter) Close() error {
	flushErr := w.Flush()
	if w.db != nil {
		if err := w.db.Close(); err != nil && flushErr == nil {
			return fmt.Errorf("failed to close DB: %w", err)
		}
	}
	return flushErr
}

func (w *PostgresWriter) batchInsert(query string, rows []interface{}) (inserted int, err error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := w.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, row := range rows {
		if _, execErr := tx.NamedExec(query, row); execErr != nil {
			// a failed statement aborts the whole postgres transaction
			err = fmt.Errorf("failed to insert row: %w", execErr)
			return 0, err
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

package storage

import (
	"errors"
	"testing"

	"travel-planner/models"
	"travel-planner/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockWriter(t *testing.T) (*PostgresWriter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPostgresWriterFromDB(sqlx.NewDb(db, "postgres"), "run-1", utils.NewNopLogger()), mock
}

func TestPostgresWriter_CreateTables(t *testing.T) {
	w, mock := newMockWriter(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS destinations").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, w.CreateTables())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_FlushesHotelsOnClose(t *testing.T) {
	w, mock := newMockWriter(t)
	score := 8.7
	require.NoError(t, w.WriteRecord(models.HotelRecord{DestinationID: 1, HotelName: "Hotel Lutetia", URL: "https://example.test/lutetia", Score: &score}))
	require.NoError(t, w.WriteRecord(models.HotelRecord{DestinationID: 1, HotelName: "Hotel Crillon", URL: "https://example.test/crillon"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO hotels").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO hotels").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	require.NoError(t, w.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_FlushNothingPending(t *testing.T) {
	w, mock := newMockWriter(t)
	require.NoError(t, w.Flush())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_SaveDestinationsRollsBack(t *testing.T) {
	w, mock := newMockWriter(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO destinations").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := w.SaveDestinations([]models.Destination{{ID: 1, Key: "Paris", Name: "Paris", Longitude: 2.35, Latitude: 48.86}})
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_SaveForecasts(t *testing.T) {
	w, mock := newMockWriter(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO forecasts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, w.SaveForecasts([]models.ForecastRow{{DestinationID: 1, Destination: "Paris", Dt: 1748779200, Temp: 21.5}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_UnknownDestinationStoredAsNull(t *testing.T) {
	w, mock := newMockWriter(t)
	score := 6.5
	require.NoError(t, w.WriteRecord(models.HotelRecord{
		DestinationID: models.UnknownDestinationID,
		HotelName:     "Hotel Inconnu",
		URL:           "https://example.test/inconnu",
		Score:         &score,
	}))
	require.NoError(t, w.WriteRecord(models.HotelRecord{
		DestinationID: 2,
		HotelName:     "Hotel Lutetia",
		URL:           "https://example.test/lutetia",
	}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO hotels").
		WithArgs("run-1", nil, "Hotel Inconnu", "https://example.test/inconnu", nil, nil, 6.5, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO hotels").
		WithArgs("run-1", 2, "Hotel Lutetia", "https://example.test/lutetia", nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, w.Flush())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHotelUniqueKeyIncludesDestination(t *testing.T) {
	// one hotel listed for two destinations keeps both rows, as in the CSV
	assert.Contains(t, schema, "UNIQUE (run_id, destination_id, url)")
	assert.Contains(t, insertHotel, "ON CONFLICT (run_id, destination_id, url) DO NOTHING")
}

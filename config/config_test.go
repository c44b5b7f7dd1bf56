package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel-planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
log:
  level: debug
scraper:
  parallelism: 3
  request_timeout: 10s
trip:
  checkin: "2025-06-01"
  checkout: "2025-06-03"
  adults: 2
  destinations:
    - key: Paris
      query: "Paris, France"
      address_type: city
      country: France
    - key: Mont Saint Michel
      query: "Mont Saint-Michel, France"
      address_type: tourism
      country: France
      type: landmark
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Scraper.Parallelism)
	assert.Equal(t, 10*time.Second, cfg.Scraper.RequestTimeout)
	assert.Equal(t, "https://www.booking.com/searchresults.fr.html", cfg.Scraper.ListingURL)
	assert.Equal(t, time.Second, cfg.Geocoder.Interval)
	assert.Equal(t, filepath.Join("data", "output", "booking_hotels.csv"), cfg.OutputPath(cfg.Output.HotelsFile))

	require.Len(t, cfg.Trip.Destinations, 2)
	assert.Equal(t, models.DestinationInput{
		Key:         "Mont Saint Michel",
		Query:       "Mont Saint-Michel, France",
		AddressType: "tourism",
		Country:     "France",
		Type:        "landmark",
	}, cfg.Trip.Destinations[1])

	key, err := cfg.WeatherAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SCRAPER_PARALLELISM", "8")
	t.Setenv("DATABASE_URL", "postgres://localhost/travel")
	t.Setenv("RUN_ID", "trip-2025-06")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scraper.Parallelism)
	assert.Equal(t, "postgres://localhost/travel", cfg.Database.URL)
	assert.Equal(t, "trip-2025-06", cfg.Run.ID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWeatherAPIKey_Missing(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")
	cfg := &Config{}
	_, err := cfg.WeatherAPIKey()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func testTrip() TripConfig {
	return TripConfig{
		Checkin:  "2025-06-01",
		Checkout: "2025-06-03",
		Adults:   2,
		Destinations: []models.DestinationInput{
			{Key: "Paris", Country: "France"},
			{Key: "Bayeux", Country: "France", Type: "city"},
			{Key: "Etretat", Country: "France"},
		},
	}
}

func TestBookingQueries_ConfiguredOrder(t *testing.T) {
	queries, err := testTrip().BookingQueries(nil)
	require.NoError(t, err)
	require.Len(t, queries, 3)

	assert.Equal(t, models.BookingQuery{
		DestinationID: 1,
		Destination:   "Paris",
		Country:       "France",
		Type:          "city",
		Checkin:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Checkout:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Adults:        2,
	}, queries[0])
	assert.Equal(t, 3, queries[2].DestinationID)
}

func TestBookingQueries_GeocodedIDs(t *testing.T) {
	// Bayeux failed to geocode
	queries, err := testTrip().BookingQueries(map[string]int{"Paris": 1, "Etretat": 2})
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "Etretat", queries[1].Destination)
	assert.Equal(t, 2, queries[1].DestinationID)
}

func TestBookingQueries_InvalidDates(t *testing.T) {
	trip := testTrip()
	trip.Checkin = "01/06/2025"
	_, err := trip.BookingQueries(nil)
	assert.ErrorContains(t, err, "invalid checkin")

	trip = testTrip()
	trip.Checkout = trip.Checkin
	_, err = trip.BookingQueries(nil)
	assert.ErrorContains(t, err, "must be after")
}

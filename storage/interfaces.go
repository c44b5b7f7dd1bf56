package storage

import "travel-planner/models"

// RecordSink receives hotel records one at a time as the crawl produces them
type RecordSink interface {
	WriteRecord(rec models.HotelRecord) error
	Close() error
}

// DestinationStorage stores geocoded destinations
type DestinationStorage interface {
	SaveDestinations(destinations []models.Destination) error
}

// ForecastStorage stores weather forecast rows
type ForecastStorage interface {
	SaveForecasts(rows []models.ForecastRow) error
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"travel-planner/config"
	"travel-planner/models"
	"travel-planner/scraper/booking"
	"travel-planner/services"
	"travel-planner/storage"
	"travel-planner/utils"

	"github.com/google/uuid"
)

// pipeline holds what the individual steps share
type pipeline struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
}

func (p *pipeline) geocode(ctx context.Context) ([]models.Destination, error) {
	if len(p.cfg.Trip.Destinations) == 0 {
		return nil, errors.New("no destinations configured under trip.destinations")
	}
	geocoder := services.NewNominatimGeocoder(p.cfg.Geocoder, p.logger)
	destinations, err := geocoder.Geocode(ctx, p.cfg.Trip.Destinations)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if err := storage.WriteDestinationsCSV(p.cfg.OutputPath(p.cfg.Output.DestinationsFile), destinations, p.logger); err != nil {
		return nil, err
	}
	return destinations, nil
}

func (p *pipeline) forecasts(ctx context.Context, destinations []models.Destination) ([]models.ForecastRow, error) {
	client, err := services.NewOpenWeatherClient(p.cfg, p.logger)
	if err != nil {
		return nil, err
	}
	rows, err := client.Forecasts(ctx, destinations)
	if err != nil {
		return nil, fmt.Errorf("weather collection failed: %w", err)
	}
	if err := storage.WriteForecastsCSV(p.cfg.OutputPath(p.cfg.Output.ForecastsFile), rows, p.logger); err != nil {
		return nil, err
	}
	return rows, nil
}

// loadDestinations reads the destinations file written by a previous geocode run
func (p *pipeline) loadDestinations() ([]models.Destination, error) {
	path := p.cfg.OutputPath(p.cfg.Output.DestinationsFile)
	destinations, err := storage.ReadDestinationsCSV(path)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Loaded %d destinations from %s", len(destinations), path)
	return destinations, nil
}

// runID is the configured run id, or a fresh one
func (p *pipeline) runID() string {
	if p.cfg.Run.ID != "" {
		return p.cfg.Run.ID
	}
	return uuid.NewString()
}

// openDatabase returns nil when no database URL is configured
func (p *pipeline) openDatabase(runID string) (*storage.PostgresWriter, error) {
	if p.cfg.Database.URL == "" {
		p.logger.Debug("database.url not set, PostgreSQL storage disabled")
		return nil, nil
	}
	db, err := storage.NewPostgresWriter(p.cfg.Database.URL, runID, p.logger)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newCoordinator builds the hotel crawl for the trip. ids maps destination
// keys to geocoded ids and may be nil.
func (p *pipeline) newCoordinator(ids map[string]int) (*booking.Coordinator, error) {
	queries, err := p.cfg.Trip.BookingQueries(ids)
	if err != nil {
		return nil, err
	}
	return booking.NewCoordinator(p.cfg, queries, p.logger), nil
}

// crawlHotels runs the crawl into the hotels CSV, db when not nil, and the
// insight report. The sinks, db included, are closed on return.
func (p *pipeline) crawlHotels(ctx context.Context, coord *booking.Coordinator, db *storage.PostgresWriter) error {
	csvWriter, err := storage.NewCSVWriter(p.cfg.OutputPath(p.cfg.Output.HotelsFile), p.logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return err
	}
	collected := &services.Collector{}
	sinks := []storage.RecordSink{csvWriter, collected}
	if db != nil {
		sinks = append(sinks, db)
	}
	sink := storage.NewMultiSink(sinks...)

	if p.cfg.Scraper.Render {
		transport, err := booking.NewBrowserTransport(ctx, p.cfg.Scraper.UserAgent, p.cfg.Scraper.RenderWait, p.logger)
		if err != nil {
			_ = sink.Close()
			return err
		}
		defer transport.Close()
		coord.SetTransport(transport)
	}

	summary, err := coord.Crawl(ctx, sink)
	if closeErr := sink.Close(); closeErr != nil {
		p.logger.Error("Failed to close hotel storage: %v", closeErr)
	}
	if err != nil {
		return fmt.Errorf("hotel crawl failed: %w", err)
	}

	names := make(map[int]string)
	for _, d := range summary.Destinations {
		names[d.DestinationID] = d.Destination
	}
	services.PrintCrawlSummary(p.out, summary)
	report := services.NewInsightService(p.logger).Generate(collected.Records)
	services.PrintInsightReport(p.out, report, names)
	return nil
}

// destinationIDs maps destination keys to ids, or returns nil when the
// destinations file does not exist yet
func (p *pipeline) destinationIDs() (map[string]int, error) {
	destinations, err := p.loadDestinations()
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("No destinations file, destination ids follow the configured order")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return idsByKey(destinations), nil
}

func idsByKey(destinations []models.Destination) map[string]int {
	ids := make(map[string]int, len(destinations))
	for _, d := range destinations {
		ids[d.Key] = d.ID
	}
	return ids
}

package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"travel-planner/models"
	"travel-planner/utils"
)

var (
	hotelHeader = []string{
		"destination_id", "hotel_name", "url", "gps_lat", "gps_long",
		"score", "description", "address",
	}
	destinationHeader = []string{"destination_id", "destination_key", "destination", "gps_long", "gps_lat"}
	forecastHeader    = []string{
		"destination_id", "destination", "dt_txt", "dt", "temp", "temp_min", "temp_max",
		"pressure", "humidity", "weather_main", "weather_descr", "clouds", "pop",
	}
)

// CSVWriter streams hotel records to a CSV file. An existing file is replaced.
type CSVWriter struct {
	filePath string
	logger   *utils.Logger

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	rows   int
}

// NewCSVWriter creates the output file and writes the header
func NewCSVWriter(filePath string, logger *utils.Logger) (*CSVWriter, error) {
	file, err := createFile(filePath)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(hotelHeader); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return &CSVWriter{filePath: filePath, logger: logger, file: file, writer: writer}, nil
}

// WriteRecord appends one hotel row
func (w *CSVWriter) WriteRecord(rec models.HotelRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(hotelCSVRow(rec)); err != nil {
		return fmt.Errorf("failed to write CSV row for %q: %w", rec.HotelName, err)
	}
	w.rows++
	return nil
}

// Close flushes and closes the file
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV: %w", err)
	}
	w.logger.Info("Hotels written to: %s (%d rows)", w.filePath, w.rows)
	return nil
}

func hotelCSVRow(rec models.HotelRecord) []string {
	id := ""
	if rec.DestinationID != models.UnknownDestinationID {
		id = strconv.Itoa(rec.DestinationID)
	}
	return []string{
		id,
		rec.HotelName,
		rec.URL,
		formatOptionalFloat(rec.Latitude),
		formatOptionalFloat(rec.Longitude),
		formatOptionalFloat(rec.Score),
		formatOptionalString(rec.Description),
		formatOptionalString(rec.Address),
	}
}

// WriteDestinationsCSV writes geocoded destinations to filePath
func WriteDestinationsCSV(filePath string, destinations []models.Destination, logger *utils.Logger) error {
	rows := make([][]string, 0, len(destinations))
	for _, d := range destinations {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			d.Key,
			d.Name,
			formatFloat(d.Longitude),
			formatFloat(d.Latitude),
		})
	}
	if err := writeAll(filePath, destinationHeader, rows); err != nil {
		return err
	}
	logger.Info("Destinations written to: %s (%d rows)", filePath, len(rows))
	return nil
}

// WriteForecastsCSV writes forecast rows to filePath
func WriteForecastsCSV(filePath string, forecasts []models.ForecastRow, logger *utils.Logger) error {
	rows := make([][]string, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, []string{
			strconv.Itoa(f.DestinationID),
			f.Destination,
			f.DtTxt,
			strconv.FormatInt(f.Dt, 10),
			formatFloat(f.Temp),
			formatFloat(f.TempMin),
			formatFloat(f.TempMax),
			strconv.Itoa(f.Pressure),
			strconv.Itoa(f.Humidity),
			f.WeatherMain,
			f.WeatherDescr,
			strconv.Itoa(f.Clouds),
			formatFloat(f.Pop),
		})
	}
	if err := writeAll(filePath, forecastHeader, rows); err != nil {
		return err
	}
	logger.Info("Forecasts written to: %s (%d rows)", filePath, len(rows))
	return nil
}

func writeAll(filePath string, header []string, rows [][]string) error {
	file, err := createFile(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func createFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	return file, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

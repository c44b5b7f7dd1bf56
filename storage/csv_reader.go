package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"travel-planner/models"
)

// ReadDestinationsCSV reads a file written by WriteDestinationsCSV. Columns are
// located by header name. A missing file returns an error wrapping os.ErrNotExist.
func ReadDestinationsCSV(filePath string) ([]models.Destination, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open destinations file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read destinations file %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range destinationHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("destinations file %s: missing column %q", filePath, name)
		}
	}

	destinations := make([]models.Destination, 0, len(records)-1)
	for line, rec := range records[1:] {
		id, err := strconv.Atoi(rec[col["destination_id"]])
		if err != nil {
			return nil, fmt.Errorf("destinations file %s line %d: invalid destination_id: %w", filePath, line+2, err)
		}
		lon, err := strconv.ParseFloat(rec[col["gps_long"]], 64)
		if err != nil {
			return nil, fmt.Errorf("destinations file %s line %d: invalid gps_long: %w", filePath, line+2, err)
		}
		lat, err := strconv.ParseFloat(rec[col["gps_lat"]], 64)
		if err != nil {
			return nil, fmt.Errorf("destinations file %s line %d: invalid gps_lat: %w", filePath, line+2, err)
		}
		destinations = append(destinations, models.Destination{
			ID:        id,
			Key:       rec[col["destination_key"]],
			Name:      rec[col["destination"]],
			Longitude: lon,
			Latitude:  lat,
		})
	}
	return destinations, nil
}

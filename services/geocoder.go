package services

import (
	"context"
	"fmt"
	"strconv"

	"travel-planner/config"
	"travel-planner/models"
	"travel-planner/utils"

	"github.com/go-resty/resty/v2"
)

// Geocoder resolves destinations to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, inputs []models.DestinationInput) ([]models.Destination, error)
}

// Place is one result of a Nominatim search
type Place struct {
	AddressType string `json:"addresstype"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NominatimGeocoder queries the OpenStreetMap Nominatim search API
type NominatimGeocoder struct {
	client  *resty.Client
	limiter *utils.RateLimiter
	logger  *utils.Logger
}

// NewNominatimGeocoder creates a geocoder spacing requests by cfg.Interval
func NewNominatimGeocoder(cfg config.GeocoderConfig, logger *utils.Logger) *NominatimGeocoder {
	client := resty.New()
	client.SetBaseURL(cfg.URL)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &NominatimGeocoder{
		client:  client,
		limiter: utils.NewRateLimiter(cfg.Interval),
		logger:  logger,
	}
}

// Search returns every place matching query
func (g *NominatimGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var places []Place
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"format": "jsonv2", "q": query}).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	g.logger.Info("Response Status code : %d, q : %s", resp.StatusCode(), query)
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode())
	}
	return places, nil
}

// Geocode resolves every input in order. Inputs that fail or have no result
// are logged and skipped; ids are assigned 1.. in output order.
func (g *NominatimGeocoder) Geocode(ctx context.Context, inputs []models.DestinationInput) ([]models.Destination, error) {
	var destinations []models.Destination
	for _, in := range inputs {
		places, err := g.Search(ctx, in.Query)
		if err != nil {
			if ctx.Err() != nil {
				return destinations, ctx.Err()
			}
			g.logger.Error("Request failed for destination key %q: %v", in.Key, err)
			continue
		}

		place, ok := g.pickPlace(places, in.Key, in.AddressType)
		if !ok {
			continue
		}

		lon, errLon := strconv.ParseFloat(place.Lon, 64)
		lat, errLat := strconv.ParseFloat(place.Lat, 64)
		if errLon != nil || errLat != nil {
			g.logger.Warn("Invalid coordinates for destination key %q: lon=%q lat=%q", in.Key, place.Lon, place.Lat)
			continue
		}

		name := place.Name
		if name == "" {
			name = in.Key
		}
		destinations = append(destinations, models.Destination{
			ID:        len(destinations) + 1,
			Key:       in.Key,
			Name:      name,
			Longitude: lon,
			Latitude:  lat,
		})
	}
	g.logger.Info("Geocoded %d/%d destinations", len(destinations), len(inputs))
	return destinations, nil
}

// pickPlace takes the single place of the expected address type. With zero or
// several matches it falls back to the first result.
func (g *NominatimGeocoder) pickPlace(places []Place, key, addressType string) (Place, bool) {
	var matches []Place
	for _, p := range places {
		if p.AddressType == addressType {
			matches = append(matches, p)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	if len(places) == 0 {
		g.logger.Warn("No matching entry for destination key : %s", key)
		return Place{}, false
	}
	g.logger.Warn("No single entry matching address type %q for destination key %q (%d matches), take first entry, address type : %s",
		addressType, key, len(matches), places[0].AddressType)
	return places[0], true
}

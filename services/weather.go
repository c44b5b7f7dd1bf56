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

// WeatherProvider returns forecast rows for destinations
type WeatherProvider interface {
	Forecasts(ctx context.Context, destinations []models.Destination) ([]models.ForecastRow, error)
}

type forecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		Dt    int64  `json:"dt"`
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Pressure int     `json:"pressure"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// OpenWeatherClient reads the OpenWeatherMap 5 day / 3 hour forecast
type OpenWeatherClient struct {
	client *resty.Client
	apiKey string
	logger *utils.Logger
}

// NewOpenWeatherClient fails with config.ErrMissingAPIKey when no key is set
func NewOpenWeatherClient(cfg *config.Config, logger *utils.Logger) (*OpenWeatherClient, error) {
	apiKey, err := cfg.WeatherAPIKey()
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(cfg.Weather.URL)
	client.SetHeader("User-Agent", cfg.Weather.UserAgent)
	if cfg.Weather.Timeout > 0 {
		client.SetTimeout(cfg.Weather.Timeout)
	}
	return &OpenWeatherClient{client: client, apiKey: apiKey, logger: logger}, nil
}

// Forecast returns one row per forecast timestamp for d
func (w *OpenWeatherClient) Forecast(ctx context.Context, d models.Destination) ([]models.ForecastRow, error) {
	lon := strconv.FormatFloat(d.Longitude, 'f', -1, 64)
	lat := strconv.FormatFloat(d.Latitude, 'f', -1, 64)

	var body forecastResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"units": "metric",
			"lon":   lon,
			"lat":   lat,
			"appid": w.apiKey,
		}).
		SetResult(&body).
		Get("/data/2.5/forecast")
	if err != nil {
		// resty errors carry the URL, which carries the key
		return nil, fmt.Errorf("forecast request for %s failed", d.Name)
	}
	// the API key stays out of the logs
	w.logger.Info("Response Status code : %d, parameters : units=metric lon=%s lat=%s", resp.StatusCode(), lon, lat)
	if resp.IsError() {
		return nil, fmt.Errorf("weather API returned status %d for %s", resp.StatusCode(), d.Name)
	}

	name := body.City.Name
	if name == "" {
		name = d.Name
	}
	rows := make([]models.ForecastRow, 0, len(body.List))
	for _, item := range body.List {
		row := models.ForecastRow{
			DestinationID: d.ID,
			Destination:   name,
			DtTxt:         item.DtTxt,
			Dt:            item.Dt,
			Temp:          item.Main.Temp,
			TempMin:       item.Main.TempMin,
			TempMax:       item.Main.TempMax,
			Pressure:      item.Main.Pressure,
			Humidity:      item.Main.Humidity,
			Clouds:        item.Clouds.All,
			Pop:           item.Pop,
		}
		if len(item.Weather) > 0 {
			row.WeatherMain = item.Weather[0].Main
			row.WeatherDescr = item.Weather[0].Description
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Forecasts collects rows for every destination. A destination whose request
// fails contributes no rows.
func (w *OpenWeatherClient) Forecasts(ctx context.Context, destinations []models.Destination) ([]models.ForecastRow, error) {
	var all []models.ForecastRow
	for _, d := range destinations {
		rows, err := w.Forecast(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			w.logger.Error("Request failed: %v", err)
			continue
		}
		all = append(all, rows...)
	}
	w.logger.Info("Collected %d forecast rows for %d destinations", len(all), len(destinations))
	return all, nil
}

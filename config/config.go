package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"travel-planner/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when the weather API key is not configured
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY not set")

const dateLayout = "2006-01-02"

// Config holds all application-level configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Run      RunConfig      `mapstructure:"run"`
	Database DatabaseConfig `mapstructure:"database"`
	Output   OutputConfig   `mapstructure:"output"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Trip     TripConfig     `mapstructure:"trip"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RunConfig names the run rows are stored under. Set the same id for separate
// geocode, weather and hotels invocations to join their rows; empty means a
// fresh id per invocation.
type RunConfig struct {
	ID string `mapstructure:"id"`
}

// DatabaseConfig is optional: an empty URL disables PostgreSQL storage
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type OutputConfig struct {
	Dir              string `mapstructure:"dir"`
	HotelsFile       string `mapstructure:"hotels_file"`
	DestinationsFile string `mapstructure:"destinations_file"`
	ForecastsFile    string `mapstructure:"forecasts_file"`
}

// ScraperConfig configures the booking crawl
type ScraperConfig struct {
	ListingURL     string        `mapstructure:"listing_url"`
	Language       string        `mapstructure:"language"`
	UserAgent      string        `mapstructure:"user_agent"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	Parallelism    int           `mapstructure:"parallelism"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Render         bool          `mapstructure:"render"` // load pages through headless Chrome
	RenderWait     time.Duration `mapstructure:"render_wait"`
}

type GeocoderConfig struct {
	URL       string        `mapstructure:"url"`
	UserAgent string        `mapstructure:"user_agent"`
	Interval  time.Duration `mapstructure:"interval"` // Nominatim allows one request per second
	Timeout   time.Duration `mapstructure:"timeout"`
}

type WeatherConfig struct {
	URL       string        `mapstructure:"url"`
	APIKey    string        `mapstructure:"api_key"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// TripConfig is the stay searched for every destination
type TripConfig struct {
	Checkin      string                    `mapstructure:"checkin"`
	Checkout     string                    `mapstructure:"checkout"`
	Adults       int                       `mapstructure:"adults"`
	Children     int                       `mapstructure:"children"`
	Destinations []models.DestinationInput `mapstructure:"destinations"`
}

// Load reads configuration from the optional YAML file at path, a .env file,
// and environment variables, falling back to defaults. Nested keys map to
// environment variables with "_" (scraper.parallelism -> SCRAPER_PARALLELISM).
func Load(path string) (*Config, error) {
	// .env is optional, existing environment variables win
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.BindEnv("weather.api_key", "OPENWEATHER_API_KEY", "WEATHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENWEATHER_API_KEY: %w", err)
	}
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}
	if err := v.BindEnv("run.id", "RUN_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind RUN_ID: %w", err)
	}
	if err := v.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127 Safari/537.36"

	v.SetDefault("log.level", "info")
	v.SetDefault("run.id", "")
	v.SetDefault("database.url", "")

	v.SetDefault("output.dir", "data/output")
	v.SetDefault("output.hotels_file", "booking_hotels.csv")
	v.SetDefault("output.destinations_file", "destinations_coordinates.csv")
	v.SetDefault("output.forecasts_file", "destinations_weatherforecasts.csv")

	v.SetDefault("scraper.listing_url", "https://www.booking.com/searchresults.fr.html")
	v.SetDefault("scraper.language", "fr")
	v.SetDefault("scraper.user_agent", userAgent)
	v.SetDefault("scraper.accept_language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7")
	v.SetDefault("scraper.parallelism", 4)
	v.SetDefault("scraper.request_timeout", 30*time.Second)
	v.SetDefault("scraper.render", false)
	v.SetDefault("scraper.render_wait", 3*time.Second)

	v.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "Edg/129.0.2792.79")
	v.SetDefault("geocoder.interval", time.Second)
	v.SetDefault("geocoder.timeout", 15*time.Second)

	v.SetDefault("weather.url", "https://api.openweathermap.org")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.user_agent", "Edg/129.0.2792.79")
	v.SetDefault("weather.timeout", 15*time.Second)

	v.SetDefault("trip.adults", 2)
	v.SetDefault("trip.children", 0)
}

// OutputPath joins a file name onto the output directory
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// WeatherAPIKey returns the configured key or ErrMissingAPIKey
func (c *Config) WeatherAPIKey() (string, error) {
	key := strings.TrimSpace(c.Weather.APIKey)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	}
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

// BookingQueries builds one query per trip destination. ids maps destination
// keys to destination ids (e.g. from geocoding); when ids is nil, ids follow
// the destination order starting at 1. Destinations missing from a non-nil
// ids map are left out.
func (t TripConfig) BookingQueries(ids map[string]int) ([]models.BookingQuery, error) {
	checkin, err := time.Parse(dateLayout, t.Checkin)
	if err != nil {
		return nil, fmt.Errorf("invalid checkin date %q: %w", t.Checkin, err)
	}
	checkout, err := time.Parse(dateLayout, t.Checkout)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout date %q: %w", t.Checkout, err)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("checkout %s must be after checkin %s", t.Checkout, t.Checkin)
	}

	queries := make([]models.BookingQuery, 0, len(t.Destinations))
	for i, d := range t.Destinations {
		id := i + 1
		if ids != nil {
			var ok bool
			if id, ok = ids[d.Key]; !ok {
				continue
			}
		}
		destType := d.Type
		if destType == "" {
			destType = "city"
		}
		queries = append(queries, models.BookingQuery{
			DestinationID: id,
			Destination:   d.Key,
			Country:       d.Country,
			Type:          destType,
			Checkin:       checkin,
			Checkout:      checkout,
			Adults:        t.Adults,
			Children:      t.Children,
		})
	}
	return queries, nil
}

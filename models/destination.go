package models

// DestinationInput is a destination to geocode and search hotels for
type DestinationInput struct {
	Key         string `mapstructure:"key"`
	Query       string `mapstructure:"query"`        // free-form geocoder search, e.g. "Bayeux, France, 14400"
	AddressType string `mapstructure:"address_type"` // expected geocoder category: city, tourism, historic...
	Country     string `mapstructure:"country"`
	Type        string `mapstructure:"type"` // booking dest_type
}

// Destination is a geocoded destination
type Destination struct {
	ID        int     `db:"destination_id"`
	Key       string  `db:"destination_key"`
	Name      string  `db:"destination"`
	Longitude float64 `db:"gps_long"`
	Latitude  float64 `db:"gps_lat"`
}

// ForecastRow is one forecast timestamp for one destination
type ForecastRow struct {
	DestinationID int     `db:"destination_id"`
	Destination   string  `db:"destination"`
	DtTxt         string  `db:"dt_txt"`
	Dt            int64   `db:"dt"`
	Temp          float64 `db:"temp"`
	TempMin       float64 `db:"temp_min"`
	TempMax       float64 `db:"temp_max"`
	Pressure      int     `db:"pressure"`
	Humidity      int     `db:"humidity"`
	WeatherMain   string  `db:"weather_main"`
	WeatherDescr  string  `db:"weather_descr"`
	Clouds        int     `db:"clouds"`
	Pop           float64 `db:"pop"`
}

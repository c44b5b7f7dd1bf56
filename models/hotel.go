package models

import "time"

// UnknownDestinationID marks a hotel whose destination could not be recovered
const UnknownDestinationID = 0

// BookingQuery is one destination/date-range search on the booking site.
// Checkout must be strictly after Checkin; this is not validated.
type BookingQuery struct {
	DestinationID int
	Destination   string
	Country       string
	Type          string // booking dest_type, e.g. "city"
	Checkin       time.Time
	Checkout      time.Time
	Adults        int
	Children      int
}

// HotelCandidate is a hotel found on a listing page, pending its detail page
type HotelCandidate struct {
	DestinationID int
	HotelName     string
	URL           string
}

// HotelRecord is the merged listing + detail result. Nil pointers are fields the
// detail page did not provide.
type HotelRecord struct {
	DestinationID int      `db:"destination_id"`
	HotelName     string   `db:"hotel_name"`
	URL           string   `db:"url"`
	Latitude      *float64 `db:"gps_lat"`
	Longitude     *float64 `db:"gps_long"`
	Score         *float64 `db:"score"`
	Description   *string  `db:"description"`
	Address       *string  `db:"address"`
}

// HotelInsights holds computed analytics over the crawled hotels
type HotelInsights struct {
	TotalHotels           int
	HotelsByDestination   map[int]int
	ScoredHotels          int
	AverageScore          float64
	MissingCoordinates    int
	TopRated              []HotelRecord
	UnresolvedDestination int
}

package services

import (
	"sort"

	"travel-planner/models"
	"travel-planner/utils"
)

const topRatedCount = 5

// InsightService computes analytics from the crawled hotels
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes all insights from a slice of hotel records
func (s *InsightService) Generate(records []models.HotelRecord) *models.HotelInsights {
	report := &models.HotelInsights{
		HotelsByDestination: make(map[int]int),
	}

	if len(records) == 0 {
		s.logger.Warn("No hotels to generate insights from")
		return report
	}

	var totalScore float64
	for _, r := range records {
		report.TotalHotels++
		if r.DestinationID == models.UnknownDestinationID {
			report.UnresolvedDestination++
		} else {
			report.HotelsByDestination[r.DestinationID]++
		}

		if r.Latitude == nil || r.Longitude == nil {
			report.MissingCoordinates++
		}

		if r.Score != nil {
			report.ScoredHotels++
			totalScore += *r.Score
		}
	}

	if report.ScoredHotels > 0 {
		report.AverageScore = totalScore / float64(report.ScoredHotels)
	}

	// Top highest-rated
	rated := make([]models.HotelRecord, 0, report.ScoredHotels)
	for _, r := range records {
		if r.Score != nil {
			rated = append(rated, r)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].Score > *rated[j].Score
	})
	report.TopRated = rated[:min(topRatedCount, len(rated))]

	return report
}

// Collector keeps every record it is given, for insights after the crawl
type Collector struct {
	Records []models.HotelRecord
}

func (c *Collector) WriteRecord(rec models.HotelRecord) error {
	c.Records = append(c.Records, rec)
	return nil
}

func (c *Collector) Close() error { return nil }

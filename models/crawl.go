package models

import "time"

// CrawlPhase is the progress of one destination query through the crawl
type CrawlPhase int

const (
	PhaseInit CrawlPhase = iota
	PhaseListingRequested
	PhaseListingReceived
	PhaseDone
)

func (p CrawlPhase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseListingRequested:
		return "LISTING_REQUESTED"
	case PhaseListingReceived:
		return "LISTING_RECEIVED"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// DestinationProgress counts detail fetches for one destination query
type DestinationProgress struct {
	DestinationID    int
	Destination      string
	Phase            CrawlPhase
	ListingFailed    bool
	Candidates       int
	DetailsRequested int
	DetailsReceived  int
	DetailsFailed    int
	RecordsEmitted   int
}

// CrawlSummary is returned once the crawl has drained
type CrawlSummary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Destinations []DestinationProgress
}

// TotalRecords sums emitted records across destinations
func (s *CrawlSummary) TotalRecords() int {
	total := 0
	for _, d := range s.Destinations {
		total += d.RecordsEmitted
	}
	return total
}

package booking

import (
	"strings"
	"sync"
	"testing"
	"time"

	"travel-planner/config"
	"travel-planner/models"
	"travel-planner/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func testConfig(listingURL string) *config.Config {
	return &config.Config{
		Scraper: config.ScraperConfig{
			ListingURL:     listingURL,
			Parallelism:    2,
			RequestTimeout: 5 * time.Second,
		},
	}
}

func parisQuery() models.BookingQuery {
	return models.BookingQuery{
		DestinationID: 1,
		Destination:   "Paris",
		Country:       "France",
		Type:          "city",
		Checkin:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Checkout:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		Children:      0,
	}
}

func newTestCoordinator(listingURL string, queries ...models.BookingQuery) *Coordinator {
	return NewCoordinator(testConfig(listingURL), queries, utils.NewNopLogger())
}

func parseDoc(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

// recordingSink collects records in memory
type recordingSink struct {
	mu      sync.Mutex
	records []models.HotelRecord
	closed  bool
}

func (s *recordingSink) WriteRecord(rec models.HotelRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

const listingPage = `<html><body>
<div data-testid="property-card" role="listitem">
  <div data-testid="title">Hotel Lutetia</div>
  <a data-testid="title-link" href="/hotel/fr/lutetia.html">Voir</a>
</div>
<div data-testid="property-card" role="listitem">
  <span>Sponsored</span>
</div>
<div data-testid="property-card" role="listitem">
  <div data-testid="title">Hotel Broken</div>
  <a data-testid="title-link" href="/hotel/fr/broken.html">Voir</a>
</div>
<div data-testid="property-card" role="listitem">
  <div data-testid="title">Hotel Without Link</div>
</div>
</body></html>`

const lutetiaPage = `<html><body>
<a data-atlas-latlng="48.8512,2.3265" href="#map">Carte</a>
<div><span><button><div>45 Boulevard Raspail, 75006 Paris, France</div></button></span></div>
<div data-testid="review-score-right-component"><div>8,7 sur 10</div><div>Fabuleux</div></div>
<p data-testid="property-description">Palace Art nouveau sur la rive gauche.</p>
</body></html>`

package booking

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"travel-planner/config"
	"travel-planner/models"
	"travel-planner/utils"

	"github.com/google/uuid"
)

var (
	// ErrNoQueries is returned by Crawl when the coordinator has nothing to search
	ErrNoQueries = errors.New("no booking queries to crawl")
	// ErrEmptyPage is returned by ExtractDetail when there is no document to read
	ErrEmptyPage = errors.New("empty page")
)

// Coordinator turns destination queries into listing requests, listing pages
// into hotel candidates, and detail pages into hotel records.
type Coordinator struct {
	cfg       *config.Config
	logger    *utils.Logger
	registry  *Registry
	queries   []models.BookingQuery
	urls      []string
	runID     string
	transport http.RoundTripper
}

// NewCoordinator builds one listing URL per query and fills the destination
// registry from them. The run id is cfg.Run.ID, or a new uuid when unset.
func NewCoordinator(cfg *config.Config, queries []models.BookingQuery, logger *utils.Logger) *Coordinator {
	runID := cfg.Run.ID
	if runID == "" {
		runID = uuid.NewString()
	}
	c := &Coordinator{
		cfg:      cfg,
		logger:   logger.With("run_id", runID),
		registry: NewRegistry(),
		queries:  queries,
		runID:    runID,
	}
	for _, q := range queries {
		u := c.BuildListingURL(q)
		c.logger.Debug("Listing URL for %s: %s", q.Destination, u)
		c.urls = append(c.urls, u)
	}
	return c
}

// RunID identifies this crawl in logs and storage
func (c *Coordinator) RunID() string {
	return c.runID
}

// Registry exposes the destination registry
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// ListingURLs returns the listing URL of every query, in query order
func (c *Coordinator) ListingURLs() []string {
	return append([]string(nil), c.urls...)
}

// SetTransport replaces the HTTP transport used by the crawl, e.g. with a
// BrowserTransport. Nil restores the default.
func (c *Coordinator) SetTransport(rt http.RoundTripper) {
	c.transport = rt
}

// BuildListingURL encodes q as a search-results URL and registers its
// destination name. Dates are expected to be valid with checkout after
// checkin; bad input yields a bad URL, never an error. It must not be called
// once Crawl has started.
func (c *Coordinator) BuildListingURL(q models.BookingQuery) string {
	if c.registry.Register(q.Destination, q.DestinationID) {
		c.logger.Warn("Destination %q registered twice, now mapped to id %d", q.Destination, q.DestinationID)
	}

	base := c.cfg.Scraper.ListingURL
	if base == "" {
		base = DefaultListingURL
	}

	// fixed parameter order, url.Values would sort the keys
	params := [][2]string{
		{"ss", q.Destination + "," + q.Country},
		{"dest_type", q.Type},
		{"checkin", q.Checkin.Format(dateLayout)},
		{"checkout", q.Checkout.Format(dateLayout)},
		{"group_adults", strconv.Itoa(q.Adults)},
		{"group_children", strconv.Itoa(q.Children)},
		{"rows", strconv.Itoa(MaxRowsPerQuery)},
	}
	if lang := c.cfg.Scraper.Language; lang != "" {
		params = append(params, [2]string{"lang", lang})
	}

	var b strings.Builder
	b.WriteString(base)
	if strings.Contains(base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

// Resolve recovers the destination id from a listing URL built by
// BuildListingURL. The search term is "<name>,<country>"; everything after the
// last comma is dropped before the registry lookup.
func (c *Coordinator) Resolve(listingURL string) (int, bool) {
	if strings.TrimSpace(listingURL) == "" {
		c.logger.Warn("No matching destination_id: empty listing URL")
		return models.UnknownDestinationID, false
	}

	u, err := url.Parse(listingURL)
	if err != nil {
		c.logger.Warn("No matching destination_id: malformed listing URL %q: %v", listingURL, err)
		return models.UnknownDestinationID, false
	}
	term := u.Query().Get("ss")
	if term == "" {
		c.logger.Warn("No matching destination_id: no search term in %q", listingURL)
		return models.UnknownDestinationID, false
	}

	name := term
	if idx := strings.LastIndex(term, ","); idx != -1 {
		name = term[:idx]
	}
	id, ok := c.registry.Lookup(name)
	if !ok {
		c.logger.Warn("No matching destination_id for %q", name)
		return models.UnknownDestinationID, false
	}
	return id, true
}

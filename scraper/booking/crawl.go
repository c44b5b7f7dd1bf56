package booking

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"travel-planner/models"
	"travel-planner/storage"

	colly "github.com/gocolly/colly/v2"
)

// Request context keys. Each request carries its own colly.Context, so the
// destination id travels with the listing request and the candidate travels
// with its detail request.
const (
	ctxPageKind      = "page_kind"
	ctxDestinationID = "destination_id"
	ctxCandidate     = "candidate"
	ctxHandled       = "handled"
)

const (
	pageListing = "listing"
	pageDetail  = "detail"
)

const (
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	defaultAcceptLanguage = "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7"
	defaultParallelism    = 2
	defaultRequestTimeout = 30 * time.Second
)

// crawlRun is the state of a single Crawl call
type crawlRun struct {
	c         *Coordinator
	collector *colly.Collector
	tracker   *phaseTracker

	sinkMu sync.Mutex
	sink   storage.RecordSink
}

// Crawl requests every listing page, follows each hotel to its detail page and
// writes one record per hotel to sink. Writes to sink are serialized. A failed
// page or sink write is logged and never stops the crawl. Crawl returns once
// every issued request has completed.
func (c *Coordinator) Crawl(ctx context.Context, sink storage.RecordSink) (*models.CrawlSummary, error) {
	if len(c.queries) == 0 {
		return nil, ErrNoQueries
	}

	summary := &models.CrawlSummary{RunID: c.runID, StartedAt: time.Now()}
	run := &crawlRun{c: c, tracker: newPhaseTracker(c.queries), sink: sink}

	collector, err := c.newCollector(ctx)
	if err != nil {
		return nil, err
	}
	run.collector = collector
	run.setupCallbacks()

	c.logger.Info("Starting hotel crawl for %d destinations", len(c.queries))
	for i, q := range c.queries {
		reqCtx := colly.NewContext()
		reqCtx.Put(ctxPageKind, pageListing)
		reqCtx.Put(ctxDestinationID, q.DestinationID)

		run.tracker.listingRequested(q.DestinationID)
		if err := collector.Request(http.MethodGet, c.urls[i], nil, reqCtx, nil); err != nil {
			c.logger.Error("Listing request for %s failed: %v", q.Destination, err)
			run.tracker.listingFailed(q.DestinationID)
		}
	}
	collector.Wait()

	summary.FinishedAt = time.Now()
	summary.Destinations = run.tracker.snapshot()
	c.logger.Info("Hotel crawl complete: %d records in %s",
		summary.TotalRecords(), summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	return summary, nil
}

func (c *Coordinator) newCollector(ctx context.Context) (*colly.Collector, error) {
	sc := c.cfg.Scraper

	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.Async(true),
		// the same hotel may be listed for several destinations
		colly.AllowURLRevisit(),
	}
	if sc.UserAgent != "" {
		opts = append(opts, colly.UserAgent(sc.UserAgent))
	}
	collector := colly.NewCollector(opts...)

	timeout := sc.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	collector.SetRequestTimeout(timeout)

	parallelism := sc.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	if err := collector.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: parallelism}); err != nil {
		return nil, fmt.Errorf("failed to set collector limits: %w", err)
	}

	if c.transport != nil {
		collector.WithTransport(c.transport)
	}
	return collector, nil
}

func (r *crawlRun) setupCallbacks() {
	acceptLanguage := r.c.cfg.Scraper.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = defaultAcceptLanguage
	}

	r.collector.OnRequest(func(req *colly.Request) {
		req.Headers.Set("Accept", defaultAccept)
		req.Headers.Set("Accept-Language", acceptLanguage)
		r.c.logger.Debug("Visiting %s", req.URL.String())
	})

	r.collector.OnHTML("html", func(e *colly.HTMLElement) {
		switch e.Request.Ctx.Get(ctxPageKind) {
		case pageListing:
			r.handleListing(e)
		case pageDetail:
			r.handleDetail(e)
		}
		e.Request.Ctx.Put(ctxHandled, "1")
	})

	r.collector.OnScraped(func(resp *colly.Response) {
		if resp.Ctx.Get(ctxHandled) != "" {
			return
		}
		// response had no HTML document
		r.c.logger.Warn("No HTML document in %s", resp.Request.URL.String())
		switch resp.Ctx.Get(ctxPageKind) {
		case pageListing:
			id := r.listingDestinationID(resp.Request)
			r.tracker.listingReceived(id)
			r.tracker.listingExpanded(id)
		case pageDetail:
			if cand, ok := resp.Ctx.GetAny(ctxCandidate).(models.HotelCandidate); ok {
				r.tracker.detailFailed(cand.DestinationID)
			}
		}
	})

	r.collector.OnError(r.handleError)
}

// listingDestinationID reads the id carried by the request, falling back to
// reverse lookup of the URL.
func (r *crawlRun) listingDestinationID(req *colly.Request) int {
	if id, ok := req.Ctx.GetAny(ctxDestinationID).(int); ok {
		return id
	}
	id, _ := r.c.Resolve(req.URL.String())
	return id
}

func (r *crawlRun) handleListing(e *colly.HTMLElement) {
	sourceURL := e.Request.URL.String()
	id := r.listingDestinationID(e.Request)
	r.tracker.listingReceived(id)
	defer r.tracker.listingExpanded(id)

	hdr := http.Header{}
	hdr.Set("Referer", sourceURL)

	for cand := range r.c.extractCandidates(e.DOM, sourceURL, id) {
		detailCtx := colly.NewContext()
		detailCtx.Put(ctxPageKind, pageDetail)
		detailCtx.Put(ctxCandidate, cand)

		r.tracker.detailRequested(id)
		if err := r.collector.Request(http.MethodGet, cand.URL, nil, detailCtx, hdr.Clone()); err != nil {
			r.c.logger.Error("Detail request for %q failed: %v", cand.HotelName, err)
			r.tracker.detailFailed(id)
		}
	}
}

func (r *crawlRun) handleDetail(e *colly.HTMLElement) {
	cand, ok := e.Request.Ctx.GetAny(ctxCandidate).(models.HotelCandidate)
	if !ok {
		r.c.logger.Error("Detail page %s has no candidate attached", e.Request.URL.String())
		return
	}

	rec, err := r.c.ExtractDetail(e.DOM, cand)
	if err != nil {
		r.c.logger.Error("An error occurred reading %q: %v", cand.HotelName, err)
		r.tracker.detailFailed(cand.DestinationID)
		return
	}
	r.tracker.detailReceived(cand.DestinationID)
	r.emit(rec)
}

func (r *crawlRun) emit(rec models.HotelRecord) {
	r.sinkMu.Lock()
	defer r.sinkMu.Unlock()

	if r.sink != nil {
		if err := r.sink.WriteRecord(rec); err != nil {
			r.c.logger.Error("Failed to write hotel %q: %v", rec.HotelName, err)
			return
		}
	}
	r.tracker.recordEmitted(rec.DestinationID)
}

func (r *crawlRun) handleError(resp *colly.Response, err error) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if resp == nil || resp.Request == nil {
		r.c.logger.Error("Crawl error: %v", err)
		return
	}

	switch resp.Request.Ctx.Get(ctxPageKind) {
	case pageListing:
		id := r.listingDestinationID(resp.Request)
		r.c.logger.Error("Listing page %s failed (status %d): %v", resp.Request.URL.String(), status, err)
		r.tracker.listingFailed(id)
	case pageDetail:
		id := models.UnknownDestinationID
		if cand, ok := resp.Request.Ctx.GetAny(ctxCandidate).(models.HotelCandidate); ok {
			id = cand.DestinationID
		}
		r.c.logger.Error("Detail page %s failed (status %d): %v", resp.Request.URL.String(), status, err)
		r.tracker.detailFailed(id)
	default:
		r.c.logger.Error("Crawl error on %s (status %d): %v", resp.Request.URL.String(), status, err)
	}
}

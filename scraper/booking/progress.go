package booking

import (
	"sync"

	"travel-planner/models"
)

type progressEntry struct {
	models.DestinationProgress
	expanding bool // listing page still issuing detail requests
}

// phaseTracker follows every destination query from INIT to DONE. Crawl
// callbacks run concurrently, so all transitions take the mutex.
type phaseTracker struct {
	mu    sync.Mutex
	byID  map[int]*progressEntry
	order []int
}

func newPhaseTracker(queries []models.BookingQuery) *phaseTracker {
	t := &phaseTracker{byID: make(map[int]*progressEntry)}
	for _, q := range queries {
		t.entry(q.DestinationID).Destination = q.Destination
	}
	return t
}

// entry must be called with mu held, or before the crawl starts
func (t *phaseTracker) entry(id int) *progressEntry {
	e, ok := t.byID[id]
	if !ok {
		e = &progressEntry{DestinationProgress: models.DestinationProgress{DestinationID: id, Phase: models.PhaseInit}}
		t.byID[id] = e
		t.order = append(t.order, id)
	}
	return e
}

func (t *phaseTracker) listingRequested(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(id).Phase = models.PhaseListingRequested
}

func (t *phaseTracker) listingFailed(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.ListingFailed = true
	e.Phase = models.PhaseDone
}

// listingReceived marks the start of candidate expansion
func (t *phaseTracker) listingReceived(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.Phase = models.PhaseListingReceived
	e.expanding = true
}

// listingExpanded marks the end of candidate expansion
func (t *phaseTracker) listingExpanded(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.expanding = false
	t.maybeDone(e)
}

func (t *phaseTracker) detailRequested(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.Candidates++
	e.DetailsRequested++
}

func (t *phaseTracker) detailReceived(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.DetailsReceived++
	t.maybeDone(e)
}

func (t *phaseTracker) detailFailed(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entry(id)
	e.DetailsFailed++
	t.maybeDone(e)
}

func (t *phaseTracker) recordEmitted(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(id).RecordsEmitted++
}

func (t *phaseTracker) maybeDone(e *progressEntry) {
	if e.Phase == models.PhaseListingReceived && !e.expanding &&
		e.DetailsReceived+e.DetailsFailed >= e.DetailsRequested {
		e.Phase = models.PhaseDone
	}
}

func (t *phaseTracker) phase(id int) models.CrawlPhase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.byID[id]; ok {
		return e.Phase
	}
	return models.PhaseInit
}

func (t *phaseTracker) snapshot() []models.DestinationProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.DestinationProgress, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id].DestinationProgress)
	}
	return out
}

package booking

import (
	"testing"

	"travel-planner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseTracker_Transitions(t *testing.T) {
	tr := newPhaseTracker([]models.BookingQuery{parisQuery()})
	assert.Equal(t, models.PhaseInit, tr.phase(1))

	tr.listingRequested(1)
	assert.Equal(t, models.PhaseListingRequested, tr.phase(1))

	tr.listingReceived(1)
	tr.detailRequested(1)
	tr.detailRequested(1)
	tr.detailReceived(1)
	// still expanding
	assert.Equal(t, models.PhaseListingReceived, tr.phase(1))

	tr.listingExpanded(1)
	assert.Equal(t, models.PhaseListingReceived, tr.phase(1))

	tr.detailFailed(1)
	assert.Equal(t, models.PhaseDone, tr.phase(1))

	snap := tr.snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Paris", snap[0].Destination)
	assert.Equal(t, 2, snap[0].Candidates)
	assert.Equal(t, 1, snap[0].DetailsReceived)
	assert.Equal(t, 1, snap[0].DetailsFailed)
}

func TestPhaseTracker_EmptyListingIsDone(t *testing.T) {
	tr := newPhaseTracker([]models.BookingQuery{parisQuery()})
	tr.listingRequested(1)
	tr.listingReceived(1)
	tr.listingExpanded(1)
	assert.Equal(t, models.PhaseDone, tr.phase(1))
}

func TestPhaseTracker_ListingFailed(t *testing.T) {
	tr := newPhaseTracker([]models.BookingQuery{parisQuery()})
	tr.listingRequested(1)
	tr.listingFailed(1)

	assert.Equal(t, models.PhaseDone, tr.phase(1))
	assert.True(t, tr.snapshot()[0].ListingFailed)
}

func TestCrawlPhase_String(t *testing.T) {
	assert.Equal(t, "LISTING_RECEIVED", models.PhaseListingReceived.String())
	assert.Equal(t, "UNKNOWN", models.CrawlPhase(42).String())
}

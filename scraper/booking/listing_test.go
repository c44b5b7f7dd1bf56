package booking

import (
	"slices"
	"strings"
	"testing"

	"travel-planner/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCandidates_DocumentOrder(t *testing.T) {
	c := newTestCoordinator("https://www.booking.com/searchresults.fr.html", parisQuery())
	source := c.ListingURLs()[0]

	got := slices.Collect(c.ExtractCandidates(parseDoc(t, listingPage), source))

	// 4 cards, 2 with both a title and a link
	require.Len(t, got, 2)
	assert.Equal(t, models.HotelCandidate{
		DestinationID: 1,
		HotelName:     "Hotel Lutetia",
		URL:           "https://www.booking.com/hotel/fr/lutetia.html",
	}, got[0])
	assert.Equal(t, "Hotel Broken", got[1].HotelName)
	assert.Equal(t, 1, got[1].DestinationID)
}

func TestExtractCandidates_UnresolvedDestination(t *testing.T) {
	c := newTestCoordinator(DefaultListingURL, parisQuery())

	got := slices.Collect(c.ExtractCandidates(parseDoc(t, listingPage), DefaultListingURL+"?ss=Nice%2CFrance"))
	require.Len(t, got, 2)
	for _, cand := range got {
		assert.Equal(t, models.UnknownDestinationID, cand.DestinationID)
	}
}

func TestExtractCandidates_NoCards(t *testing.T) {
	c := newTestCoordinator(DefaultListingURL, parisQuery())

	got := slices.Collect(c.ExtractCandidates(parseDoc(t, `<html><body><p>Aucun résultat</p></body></html>`), c.ListingURLs()[0]))
	assert.Empty(t, got)

	assert.Empty(t, slices.Collect(c.ExtractCandidates(nil, c.ListingURLs()[0])))
}

func TestExtractCandidates_StopEarly(t *testing.T) {
	c := newTestCoordinator(DefaultListingURL, parisQuery())

	n := 0
	for range c.ExtractCandidates(parseDoc(t, listingPage), c.ListingURLs()[0]) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestExtractCandidates_FailingCardSkipped(t *testing.T) {
	orig := readCardName
	t.Cleanup(func() { readCardName = orig })
	readCardName = func(card *goquery.Selection) string {
		name := orig(card)
		if strings.Contains(name, "Broken") {
			panic("unexpected card markup")
		}
		return name
	}

	c := newTestCoordinator(DefaultListingURL, parisQuery())
	got := slices.Collect(c.ExtractCandidates(parseDoc(t, listingPage), c.ListingURLs()[0]))

	require.Len(t, got, 1)
	assert.Equal(t, "Hotel Lutetia", got[0].HotelName)
}

func TestExtractCandidates_TitleOwnText(t *testing.T) {
	page := `<html><body>
<div data-testid="property-card" role="listitem">
  <div data-testid="title">Hotel  Lutetia <span>Nouveau</span></div>
  <a data-testid="title-link" href="/hotel/fr/lutetia.html">Voir</a>
</div>
</body></html>`
	c := newTestCoordinator(DefaultListingURL, parisQuery())

	got := slices.Collect(c.ExtractCandidates(parseDoc(t, page), c.ListingURLs()[0]))
	require.Len(t, got, 1)
	assert.Equal(t, "Hotel Lutetia", got[0].HotelName)
}

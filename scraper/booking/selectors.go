package booking

// Listing page
const (
	propertyCardSelector = `div[data-testid*="property-card"][role*="listitem"]`
	cardTitleSelector    = `div[data-testid*="title"]`
	cardLinkSelector     = `a[data-testid*="title-link"]`
)

// Detail page
const (
	latLngAttr          = "data-atlas-latlng"
	latLngSelector      = `a[data-atlas-latlng]`
	addressSelector     = `span button div`
	scoreSelector       = `div[data-testid*="review-score-right-component"]`
	descriptionSelector = `p[data-testid*="property-description"]`
)

// Listing query
const (
	// DefaultListingURL is the French search-results endpoint
	DefaultListingURL = "https://www.booking.com/searchresults.fr.html"
	// MaxRowsPerQuery caps the hotels returned by one listing page
	MaxRowsPerQuery = 20
	dateLayout      = "2006-01-02"
)

package booking

import (
	"iter"
	"net/url"
	"strings"

	"travel-planner/models"

	"github.com/PuerkitoBio/goquery"
)

// ExtractCandidates yields one candidate per property card that has both a
// title and a detail link, in document order. The destination id comes from
// resolving sourceURL. Cards without a title (ads, placeholders) are skipped
// silently; a card that fails to parse is skipped with a log line.
func (c *Coordinator) ExtractCandidates(page *goquery.Selection, sourceURL string) iter.Seq[models.HotelCandidate] {
	id, _ := c.Resolve(sourceURL)
	return c.extractCandidates(page, sourceURL, id)
}

func (c *Coordinator) extractCandidates(page *goquery.Selection, sourceURL string, destinationID int) iter.Seq[models.HotelCandidate] {
	return func(yield func(models.HotelCandidate) bool) {
		if page == nil {
			return
		}
		base, err := url.Parse(sourceURL)
		if err != nil {
			base = nil
		}

		cards := page.Find(propertyCardSelector)
		c.logger.Info("Found %d hotel containers on %s", cards.Length(), sourceURL)
		for i := range cards.Length() {
			cand, ok := c.readCard(cards.Eq(i), base, destinationID)
			if !ok {
				continue
			}
			if !yield(cand) {
				return
			}
		}
	}
}

// readCardName returns the title's own text, leaving out badges and other
// child elements of the title block.
var readCardName = func(card *goquery.Selection) string {
	title := card.Find(cardTitleSelector).First()
	own := title.Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == "#text"
	})
	return strings.Join(strings.Fields(own.Text()), " ")
}

func (c *Coordinator) readCard(card *goquery.Selection, base *url.URL, destinationID int) (cand models.HotelCandidate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Info("Hotel card unreadable, go to next: %v", r)
			ok = false
		}
	}()

	name := readCardName(card)
	if name == "" {
		return cand, false
	}

	href := strings.TrimSpace(card.Find(cardLinkSelector).First().AttrOr("href", ""))
	if href == "" {
		c.logger.Debug("Hotel %q has no detail link, skipping", name)
		return cand, false
	}
	link, err := url.Parse(href)
	if err != nil {
		c.logger.Debug("Hotel %q has an invalid detail link %q: %v", name, href, err)
		return cand, false
	}
	if base != nil {
		link = base.ResolveReference(link)
	}

	return models.HotelCandidate{
		DestinationID: destinationID,
		HotelName:     name,
		URL:           link.String(),
	}, true
}

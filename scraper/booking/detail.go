package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"travel-planner/models"

	"github.com/PuerkitoBio/goquery"
)

var scoreRegex = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ExtractDetail reads coordinates, address, review score and description from
// a hotel page and merges them onto the candidate. Each field is optional and
// read independently; a field that is missing or fails stays nil. An error is
// returned only when the page cannot be read at all.
func (c *Coordinator) ExtractDetail(page *goquery.Selection, cand models.HotelCandidate) (rec models.HotelRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detail page %s: %v", cand.URL, r)
		}
	}()

	if page == nil || page.Length() == 0 {
		return rec, fmt.Errorf("detail page %s: %w", cand.URL, ErrEmptyPage)
	}

	rec = models.HotelRecord{
		DestinationID: cand.DestinationID,
		HotelName:     cand.HotelName,
		URL:           cand.URL,
	}

	c.field(cand, "coordinates", func() {
		rec.Latitude, rec.Longitude = readCoordinates(page)
	})
	c.field(cand, "address", func() {
		rec.Address = readAddress(page)
	})
	c.field(cand, "score", func() {
		rec.Score = readScore(page)
	})
	c.field(cand, "description", func() {
		rec.Description = readDescription(page)
	})

	return rec, nil
}

// field runs one extraction, logging instead of propagating a panic
func (c *Coordinator) field(cand models.HotelCandidate, name string, extract func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Hotel %q: could not read %s: %v", cand.HotelName, name, r)
		}
	}()
	extract()
}

// Field readers, one per optional detail field
var (
	readCoordinates = coordinatesFromPage
	readAddress     = addressFromPage
	readScore       = scoreFromPage
	readDescription = func(page *goquery.Selection) *string {
		return optionalText(page.Find(descriptionSelector).First())
	}
)

func coordinatesFromPage(page *goquery.Selection) (*float64, *float64) {
	return parseLatLng(page.Find(latLngSelector).First().AttrOr(latLngAttr, ""))
}

// addressFromPage reads the address block that follows the map link. The
// coordinate anchor is preferred; without it the first link followed by an
// address block is used.
func addressFromPage(page *goquery.Selection) *string {
	if addr := addressAfter(page.Find(latLngSelector).First()); addr.Length() > 0 {
		return optionalText(addr)
	}
	var addr *goquery.Selection
	page.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if found := addressAfter(a); found.Length() > 0 {
			addr = found
			return false
		}
		return true
	})
	if addr == nil {
		return nil
	}
	return optionalText(addr)
}

func addressAfter(anchor *goquery.Selection) *goquery.Selection {
	return anchor.NextAllFiltered("div").First().Find(addressSelector).First()
}

func scoreFromPage(page *goquery.Selection) *float64 {
	block := page.Find(scoreSelector).First()
	if block.Length() == 0 {
		return nil
	}
	text := block.ChildrenFiltered("div").First()
	if text.Length() == 0 {
		text = block
	}
	return parseScore(text.Text())
}

// parseScore returns the first number in s, accepting a comma as decimal
// separator: "8,7 sur 10" gives 8.7.
func parseScore(s string) *float64 {
	match := scoreRegex.FindString(s)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseLatLng splits a "lat,lng" attribute. Anything else gives two nils.
func parseLatLng(s string) (*float64, *float64) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, nil
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, nil
	}
	return &lat, &lng
}

func optionalText(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return nil
	}
	return &text
}

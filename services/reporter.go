package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"travel-planner/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const nameWidth = 40

// PrintInsightReport renders the hotel insights as terminal tables.
// names maps destination ids to display names and may be nil.
func PrintInsightReport(out io.Writer, report *models.HotelInsights, names map[int]string) {
	overview := table.NewWriter()
	overview.SetOutputMirror(out)
	overview.SetStyle(table.StyleLight)
	overview.SetTitle("HOTEL MARKET INSIGHTS")
	overview.AppendRows([]table.Row{
		{"Total hotels", report.TotalHotels},
		{"Hotels with a score", report.ScoredHotels},
		{"Average score", fmt.Sprintf("%.2f", report.AverageScore)},
		{"Missing coordinates", report.MissingCoordinates},
		{"Unresolved destination", report.UnresolvedDestination},
	})
	overview.Render()

	if len(report.HotelsByDestination) > 0 {
		ids := make([]int, 0, len(report.HotelsByDestination))
		for id := range report.HotelsByDestination {
			ids = append(ids, id)
		}
		// by count descending
		sort.Slice(ids, func(i, j int) bool {
			ci, cj := report.HotelsByDestination[ids[i]], report.HotelsByDestination[ids[j]]
			if ci != cj {
				return ci > cj
			}
			return ids[i] < ids[j]
		})

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.SetTitle("HOTELS PER DESTINATION")
		t.AppendHeader(table.Row{"ID", "Destination", "Hotels", ""})
		for _, id := range ids {
			count := report.HotelsByDestination[id]
			t.AppendRow(table.Row{id, names[id], count, strings.Repeat("▓", count)})
		}
		t.Render()
	}

	if len(report.TopRated) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.SetTitle(fmt.Sprintf("TOP %d HIGHEST RATED HOTELS", len(report.TopRated)))
		t.AppendHeader(table.Row{"#", "Hotel", "Destination", "Score"})
		for i, r := range report.TopRated {
			t.AppendRow(table.Row{i + 1, text.Trim(r.HotelName, nameWidth), names[r.DestinationID], fmt.Sprintf("%.1f", *r.Score)})
		}
		t.Render()
	}
}

// PrintCrawlSummary renders per-destination crawl progress
func PrintCrawlSummary(out io.Writer, summary *models.CrawlSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("CRAWL " + summary.RunID)
	t.AppendHeader(table.Row{"ID", "Destination", "Phase", "Candidates", "Details OK", "Details failed", "Records"})
	for _, d := range summary.Destinations {
		phase := d.Phase.String()
		if d.ListingFailed {
			phase += " (listing failed)"
		}
		t.AppendRow(table.Row{
			d.DestinationID, d.Destination, phase,
			d.Candidates, d.DetailsReceived, d.DetailsFailed, d.RecordsEmitted,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", summary.TotalRecords()})
	t.Render()
}

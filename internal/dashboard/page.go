package dashboard

import (
	"html/template"

	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/record"
)

const pageTitleWidth = 60

// Page lays out snap as the standalone dashboard page, listing rows in the
// post table. Chart clicks are posted to eventURL; an empty eventURL
// renders a static page.
func Page(snap *Snapshot, rows []record.Post, eventURL string) chart.Page {
	page := chart.Page{
		Title:    "Sentiment Dashboard",
		Source:   snap.Filter.Source,
		Range:    snap.Filter.Range.String(),
		Count:    snap.Summary.Count,
		Average:  chart.AverageLabel(snap.Summary),
		EventURL: eventURL,
		Charts: []template.HTML{
			chart.Snippet(chart.BarChart(chart.WeightedChartID, snap.Charts[chart.NameWeighted])),
			chart.Snippet(chart.BarChart(chart.RawChartID, snap.Charts[chart.NameRaw])),
			chart.Snippet(chart.BarChart(chart.EngagementChartID, snap.Charts[chart.NameEngagement])),
			chart.Snippet(chart.BarChart(chart.CommentsChartID, snap.Charts[chart.NameComments])),
			chart.Snippet(chart.PieChart(chart.PieChartID, snap.Charts[chart.NamePie])),
			chart.Snippet(chart.LineChart(chart.TrendChartID, "Category Sentiment Trends", snap.Trends)),
		},
	}
	for _, p := range rows {
		page.Rows = append(page.Rows, chart.Row{
			ID:       p.ID,
			Title:    chart.Truncate(p.Title, pageTitleWidth),
			Category: p.Category,
			Weighted: p.WeightedSentimentScore,
			Color:    template.CSS(palette.Sign(p.WeightedSentimentScore)),
		})
	}
	return page
}

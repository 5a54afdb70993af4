package chart

import (
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

// Element ids the dashboard page attaches click handlers to.
const (
	WeightedChartID   = "weightedSentiment"
	RawChartID        = "rawSentiment"
	EngagementChartID = "engagement"
	CommentsChartID   = "comments"
	PieChartID        = "sentimentPie"
	TrendChartID      = "categoryTrend"
)

// MovingSuffix marks the moving-average line of a category.
const MovingSuffix = " (avg)"

func boolPtr(b bool) *bool { return &b }

func BarChart(id string, p Projection) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: p.Title}),
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Theme: types.ThemeWesteros, Height: "360px"}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(false)}),
	)

	items := make([]opts.BarData, len(p.Values))
	for i, v := range p.Values {
		items[i] = opts.BarData{Name: p.Labels[i], Value: v, ItemStyle: &opts.ItemStyle{Color: p.Colors[i]}}
	}
	bar.SetXAxis(p.Labels).AddSeries(p.Title, items)
	return bar
}

func PieChart(id string, p Projection) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: p.Title}),
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Theme: types.ThemeWesteros, Height: "360px"}),
	)

	items := make([]opts.PieData, len(p.Values))
	for i, v := range p.Values {
		items[i] = opts.PieData{Name: p.Labels[i], Value: v, ItemStyle: &opts.ItemStyle{Color: p.Colors[i]}}
	}
	pie.AddSeries(p.Title, items)
	return pie
}

// LineChart draws the raw daily average and the moving average of every
// category on a shared date axis. Days without a valid value are gaps.
func LineChart(id, title string, series []trend.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Theme: types.ThemeWesteros, Height: "420px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "axis"}),
	)

	axis := trend.Axis(series)
	line.SetXAxis(axis)
	for _, s := range series {
		raw := make([]opts.LineData, len(axis))
		moving := make([]opts.LineData, len(axis))
		for i := range axis {
			raw[i] = opts.LineData{Value: "-"}
			moving[i] = opts.LineData{Value: "-"}
		}
		for j, p := range s.Points {
			i := indexOf(axis, p.Date)
			if p.Valid {
				raw[i] = opts.LineData{Value: p.Value}
			}
			moving[i] = opts.LineData{Value: s.Moving[j]}
		}
		line.AddSeries(s.Category, raw, charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}))
		line.AddSeries(s.Category+MovingSuffix, moving, charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Type: "dashed"}))
	}
	return line
}

func indexOf(axis []string, date string) int {
	for i, d := range axis {
		if d == date {
			return i
		}
	}
	return -1
}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

// Snippet renders a chart's element and script for embedding in a page.
func Snippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

// Page is the data behind the standalone dashboard page.
type Page struct {
	Title    string
	Source   string
	Range    string
	Count    int
	Average  string
	Charts   []template.HTML
	Rows     []Row
	EventURL string
}

type Row struct {
	ID       string
	Title    string
	Category string
	Weighted float64
	Color    template.CSS
}

func RenderPage(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/themes/westeros.js"></script>
    <style>
        body { font-family: sans-serif; margin: 24px; background: #f8fafc; }
        .kpis { display: flex; gap: 24px; margin-bottom: 24px; }
        .kpi { background: #fff; padding: 16px 24px; border-radius: 8px; }
        .charts { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
        table { border-collapse: collapse; margin-top: 24px; background: #fff; }
        td, th { padding: 6px 12px; border-bottom: 1px solid #e2e8f0; text-align: left; }
        #detail { white-space: pre-wrap; background: #fff; padding: 12px; margin-top: 24px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="kpis">
        <div class="kpi">Source<br><b>{{.Source}}</b></div>
        <div class="kpi">Range<br><b>{{.Range}}</b></div>
        <div class="kpi">Posts<br><b>{{.Count}}</b></div>
        <div class="kpi">Avg weighted<br><b>{{.Average}}</b></div>
    </div>
    <div class="charts">
        {{range .Charts}}<div>{{.}}</div>
        {{end}}
    </div>
    <table>
        <tr><th>Title</th><th>Category</th><th>Weighted</th></tr>
        {{range .Rows}}<tr data-id="{{.ID}}"><td>{{.Title}}</td><td>{{.Category}}</td><td style="color: {{.Color}}">{{printf "%.2f" .Weighted}}</td></tr>
        {{end}}
    </table>
    <div id="detail"></div>
    {{if .EventURL}}
    <script>
        function dispatch(component, action, params) {
            fetch({{.EventURL}}, {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({
                    component: component,
                    action: action,
                    index: params.dataIndex === undefined ? -1 : params.dataIndex,
                    name: params.name || '',
                    series: params.seriesName || ''
                })
            }).then(r => r.json()).then(d => {
                document.getElementById('detail').textContent = JSON.stringify(d, null, 2);
            });
        }
        window.addEventListener('load', function() {
            setTimeout(function() {
                ['weightedSentiment', 'rawSentiment', 'engagement', 'comments', 'categoryTrend'].forEach(function(id) {
                    const dom = document.getElementById(id);
                    const chart = dom && echarts.getInstanceByDom(dom);
                    if (!chart) return;
                    chart.on('click', function(params) { dispatch(id, 'click', params); });
                    chart.on('legendselectchanged', function(params) {
                        dispatch(id, 'legend', {seriesName: params.name});
                    });
                });
            }, 1000);
        });
    </script>
    {{end}}
</body>
</html>
`))

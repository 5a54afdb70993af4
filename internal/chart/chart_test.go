package chart

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

func TestFitLabel(t *testing.T) {
	tests := []struct {
		label string
		width int
		want  string
	}{
		{"short", 8, "   short"},
		{"exactly8", 8, "exactly8"},
		{"a much longer title", 8, "a much …"},
		{"日本語のタイトルです", 5, "日本語の…"},
		{"x", 0, "x"},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		got := FitLabel(tt.label, tt.width)
		if got != tt.want {
			t.Errorf("FitLabel(%q, %d) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
		if tt.width > 0 && utf8.RuneCountInString(got) != tt.width {
			t.Errorf("FitLabel(%q, %d) has %d runes", tt.label, tt.width, utf8.RuneCountInString(got))
		}
	}
}

func TestWeightedSentimentColours(t *testing.T) {
	posts := []record.Post{
		{ID: "a", Title: "Bad day", WeightedSentimentScore: -0.4},
		{ID: "b", Title: "Okay", WeightedSentimentScore: 0},
		{ID: "c", Title: "Great", WeightedSentimentScore: 0.9},
	}

	p := WeightedSentiment(posts, DefaultLabelWidth)
	if p.Len() != 3 || len(p.Labels) != 3 || len(p.Colors) != 3 || len(p.IDs) != 3 {
		t.Fatalf("unexpected lengths %+v", p)
	}
	want := []string{palette.Negative, palette.Positive, palette.Positive}
	for i, c := range p.Colors {
		if c != want[i] {
			t.Errorf("colour %d = %s, want %s", i, c, want[i])
		}
	}
	if id, ok := p.ID(2); !ok || id != "c" {
		t.Errorf("expected id c at 2, got %s", id)
	}
	if _, ok := p.ID(3); ok {
		t.Error("expected out-of-range index to fail")
	}
	if utf8.RuneCountInString(p.Labels[0]) != DefaultLabelWidth {
		t.Errorf("label not fitted: %q", p.Labels[0])
	}
}

func TestUniformProjections(t *testing.T) {
	posts := []record.Post{{ID: "a", EngagementScore: -1, TotalComments: 3}, {ID: "b", EngagementScore: 2}}

	for _, p := range []Projection{Engagement(posts, 10), Comments(posts, 10)} {
		for _, c := range p.Colors {
			if c != palette.Uniform {
				t.Errorf("%s: expected uniform colour, got %s", p.Name, c)
			}
		}
	}
	if Comments(posts, 10).Values[0] != 3 {
		t.Error("expected comment count value")
	}
}

func TestCategoryTotals(t *testing.T) {
	series := []trend.Series{
		{Category: "exams", Points: []trend.Point{{Value: 0.2, Valid: true}, {Value: 0.4, Valid: true}}},
		{Category: "empty", Points: []trend.Point{{Valid: false}}},
	}

	p := CategoryTotals(series, 10)
	if p.Len() != 1 {
		t.Fatalf("expected 1 category, got %d", p.Len())
	}
	if p.IDs[0] != "exams" || p.Colors[0] != palette.Category("exams") {
		t.Errorf("unexpected projection %+v", p)
	}
	if v := p.Values[0]; v < 0.299 || v > 0.301 {
		t.Errorf("expected mean 0.3, got %v", v)
	}
}

func TestSentimentPie(t *testing.T) {
	s := rank.Summarize([]record.Post{{WeightedSentimentScore: 1}, {WeightedSentimentScore: -1}, {WeightedSentimentScore: -2}})
	p := SentimentPie(s)

	if strings.Join(p.Labels, ",") != "Pos,Neu,Neg" {
		t.Errorf("unexpected labels %v", p.Labels)
	}
	if p.Values[0] != 33.3 || p.Values[1] != 0 || p.Values[2] != 66.7 {
		t.Errorf("unexpected values %v", p.Values)
	}
	if p.Colors[0] != palette.PiePositive || p.Colors[2] != palette.PieNegative {
		t.Errorf("unexpected colours %v", p.Colors)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameWeighted, NameRaw, NameEngagement, NameComments, NamePie} {
		if _, ok := ByName(name, nil, 10); !ok {
			t.Errorf("expected projection for %s", name)
		}
	}
	if _, ok := ByName("histogram", nil, 10); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestAverageLabel(t *testing.T) {
	if got := AverageLabel(rank.Summary{}); got != "N/A" {
		t.Errorf("expected N/A, got %s", got)
	}
	if got := AverageLabel(rank.Summary{HasAverage: true, AverageWeighted: -0.125}); got != "-0.12" && got != "-0.13" {
		t.Errorf("unexpected average label %s", got)
	}
}

func TestRenderCharts(t *testing.T) {
	posts := []record.Post{{ID: "a", Title: "One", WeightedSentimentScore: -0.2}}
	series := []trend.Series{{
		Category: "exams",
		Color:    palette.Category("exams"),
		Points:   []trend.Point{{Date: "2024-01-01", Value: 0.1, Valid: true}, {Date: "2024-01-02"}},
		Moving:   []float64{0.1, 0.1},
	}}

	bar := Snippet(BarChart(WeightedChartID, WeightedSentiment(posts, 10)))
	if !strings.Contains(string(bar), WeightedChartID) {
		t.Error("expected bar snippet to carry its chart id")
	}
	line := Snippet(LineChart(TrendChartID, "Trends", series))
	if !strings.Contains(string(line), TrendChartID) {
		t.Error("expected line snippet to carry its chart id")
	}
	pie := Snippet(PieChart(PieChartID, SentimentPie(rank.Summarize(posts))))
	if !strings.Contains(string(pie), PieChartID) {
		t.Error("expected pie snippet to carry its chart id")
	}

	var buf bytes.Buffer
	err := RenderPage(&buf, Page{
		Title:    "Sentiment",
		Count:    1,
		Average:  "-0.20",
		Charts:   []template.HTML{bar, line, pie},
		Rows:     []Row{{ID: "a", Title: "One", Weighted: -0.2, Color: template.CSS(palette.Negative)}},
		EventURL: "/api/events",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<title>Sentiment</title>", WeightedChartID, "data-id=\"a\"", "rgba(255, 99, 132, 0.8)"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

package chart

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

const (
	DefaultLabelWidth = 20
	Ellipsis          = "…"
)

// Projection is one chart's data: parallel labels, values and colours.
// IDs maps each position back to the record it came from.
type Projection struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
	IDs    []string  `json:"ids"`
}

func (p Projection) Len() int {
	return len(p.Values)
}

// ID returns the record id behind position i.
func (p Projection) ID(i int) (string, bool) {
	if i < 0 || i >= len(p.IDs) {
		return "", false
	}
	return p.IDs[i], true
}

// Truncate shortens label to width runes, ending in an ellipsis.
func Truncate(label string, width int) string {
	if width <= 0 || utf8.RuneCountInString(label) <= width {
		return label
	}
	runes := []rune(label)
	if width == 1 {
		return Ellipsis
	}
	return string(runes[:width-1]) + Ellipsis
}

// FitLabel truncates label to width runes or left-pads it with spaces so
// every label occupies exactly width runes.
func FitLabel(label string, width int) string {
	if width <= 0 {
		return label
	}
	n := utf8.RuneCountInString(label)
	if n > width {
		return Truncate(label, width)
	}
	return strings.Repeat(" ", width-n) + label
}

func fromPosts(name, title string, posts []record.Post, width int, value func(record.Post) float64, color func(float64) string) Projection {
	p := Projection{
		Name:   name,
		Title:  title,
		Labels: make([]string, len(posts)),
		Values: make([]float64, len(posts)),
		Colors: make([]string, len(posts)),
		IDs:    make([]string, len(posts)),
	}
	for i, post := range posts {
		v := value(post)
		p.Labels[i] = FitLabel(post.Title, width)
		p.Values[i] = v
		p.Colors[i] = color(v)
		p.IDs[i] = post.ID
	}
	return p
}

func uniform(float64) string { return palette.Uniform }

const (
	NameWeighted   = "weighted"
	NameRaw        = "raw"
	NameEngagement = "engagement"
	NameComments   = "comments"
	NamePie        = "pie"
	NameCategories = "categories"
)

func WeightedSentiment(posts []record.Post, width int) Projection {
	return fromPosts(NameWeighted, "Weighted Sentiment", posts, width,
		func(p record.Post) float64 { return p.WeightedSentimentScore }, palette.Sign)
}

func RawSentiment(posts []record.Post, width int) Projection {
	return fromPosts(NameRaw, "Raw Sentiment", posts, width,
		func(p record.Post) float64 { return p.RawSentimentScore }, palette.Sign)
}

func Engagement(posts []record.Post, width int) Projection {
	return fromPosts(NameEngagement, "Engagement Score", posts, width,
		func(p record.Post) float64 { return p.EngagementScore }, uniform)
}

func Comments(posts []record.Post, width int) Projection {
	return fromPosts(NameComments, "Total Comments", posts, width,
		func(p record.Post) float64 { return float64(p.TotalComments) }, uniform)
}

// CategoryTotals projects the mean of each series' valid points, coloured
// by category. Series without a valid point are left out.
func CategoryTotals(series []trend.Series, width int) Projection {
	p := Projection{Name: NameCategories, Title: "Average Sentiment by Category"}
	for _, s := range series {
		mean, ok := s.Mean()
		if !ok {
			continue
		}
		p.Labels = append(p.Labels, FitLabel(s.Category, width))
		p.Values = append(p.Values, mean)
		p.Colors = append(p.Colors, palette.Category(s.Category))
		p.IDs = append(p.IDs, s.Category)
	}
	return p
}

// SentimentPie projects the positive/neutral/negative share as one-decimal
// percentages.
func SentimentPie(s rank.Summary) Projection {
	return Projection{
		Name:   NamePie,
		Title:  "Sentiment Distribution",
		Labels: []string{"Pos", "Neu", "Neg"},
		Values: []float64{s.PositivePercent, s.NeutralPercent, s.NegativePercent},
		Colors: []string{palette.PiePositive, palette.PieNeutral, palette.PieNegative},
		IDs:    []string{"positive", "neutral", "negative"},
	}
}

// ByName builds the named per-post projection. ok is false for an unknown
// name.
func ByName(name string, posts []record.Post, width int) (Projection, bool) {
	switch name {
	case NameWeighted:
		return WeightedSentiment(posts, width), true
	case NameRaw:
		return RawSentiment(posts, width), true
	case NameEngagement:
		return Engagement(posts, width), true
	case NameComments:
		return Comments(posts, width), true
	case NamePie:
		return SentimentPie(rank.Summarize(posts)), true
	}
	return Projection{}, false
}

// AverageLabel renders the average weighted score box.
func AverageLabel(s rank.Summary) string {
	if !s.HasAverage {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", s.AverageWeighted)
}

package drilldown

import (
	"fmt"

	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/record"
)

type Badge struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

func Badges(p record.Post) []Badge {
	badges := []Badge{
		{Label: "Weighted", Value: fmt.Sprintf("%.2f", p.WeightedSentimentScore), Color: palette.Sign(p.WeightedSentimentScore)},
		{Label: "Raw", Value: fmt.Sprintf("%.2f", p.RawSentimentScore), Color: palette.Sign(p.RawSentimentScore)},
		{Label: "Engagement", Value: fmt.Sprintf("%.2f", p.EngagementScore), Color: palette.Uniform},
		{Label: "Comments", Value: fmt.Sprintf("%d", p.TotalComments), Color: palette.Uniform},
	}
	if p.Category != "" {
		badges = append(badges, Badge{Label: "Category", Value: p.Category, Color: palette.Category(p.Category)})
	}
	if p.Emotion != "" {
		badges = append(badges, Badge{Label: "Emotion", Value: p.Emotion, Color: palette.Default})
	}
	if p.IIT || p.RelatedToTemasekPoly {
		badges = append(badges, Badge{Label: "Related", Value: "yes", Color: palette.Positive})
	}
	return badges
}

func CommentBadges(c record.Comment) []Badge {
	badges := []Badge{
		{Label: "Sentiment", Value: fmt.Sprintf("%.2f", c.Sentiment), Color: palette.Sign(c.Sentiment)},
		{Label: "Score", Value: fmt.Sprintf("%d", c.Score), Color: palette.Uniform},
	}
	if c.Category != "" {
		badges = append(badges, Badge{Label: "Category", Value: c.Category, Color: palette.Category(c.Category)})
	}
	if c.Emotion != "" {
		badges = append(badges, Badge{Label: "Emotion", Value: c.Emotion, Color: palette.Default})
	}
	return badges
}

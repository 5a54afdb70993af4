package rank

import (
	"math"

	"github.com/julienpequegnot/sentimon/internal/record"
)

// Summary holds the headline numbers for a filtered post set.
type Summary struct {
	Count           int     `json:"count"`
	AverageWeighted float64 `json:"averageWeighted"`
	HasAverage      bool    `json:"hasAverage"`
	Positive        int     `json:"positive"`
	Neutral         int     `json:"neutral"`
	Negative        int     `json:"negative"`
	PositivePercent float64 `json:"positivePercent"`
	NeutralPercent  float64 `json:"neutralPercent"`
	NegativePercent float64 `json:"negativePercent"`
}

// Summarize counts posts by the sign of their weighted sentiment score.
func Summarize(posts []record.Post) Summary {
	s := Summary{Count: len(posts)}
	if len(posts) == 0 {
		return s
	}

	var total float64
	for _, p := range posts {
		total += p.WeightedSentimentScore
		switch {
		case p.WeightedSentimentScore > 0:
			s.Positive++
		case p.WeightedSentimentScore < 0:
			s.Negative++
		default:
			s.Neutral++
		}
	}

	s.AverageWeighted = total / float64(len(posts))
	s.HasAverage = true
	s.PositivePercent = percent(s.Positive, s.Count)
	s.NeutralPercent = percent(s.Neutral, s.Count)
	s.NegativePercent = percent(s.Negative, s.Count)
	return s
}

func percent(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*1000) / 10
}

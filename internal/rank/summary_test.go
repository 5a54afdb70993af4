package rank

import (
	"math"
	"testing"

	"github.com/julienpequegnot/sentimon/internal/record"
)

func TestSummarize(t *testing.T) {
	posts := []record.Post{
		{WeightedSentimentScore: 0.5},
		{WeightedSentimentScore: -0.2},
		{WeightedSentimentScore: 0},
	}

	s := Summarize(posts)
	if s.Count != 3 || s.Positive != 1 || s.Negative != 1 || s.Neutral != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !s.HasAverage || math.Abs(s.AverageWeighted-0.1) > 1e-9 {
		t.Errorf("expected average 0.1, got %+v", s)
	}
	if s.PositivePercent != 33.3 || s.NeutralPercent != 33.3 || s.NegativePercent != 33.3 {
		t.Errorf("unexpected percentages: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.HasAverage || s.Count != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.PositivePercent != 0 {
		t.Errorf("expected zero percentages, got %+v", s)
	}
}

package record

import "time"

const (
	NoTitle       = "No Title"
	UnknownAuthor = "Unknown"
)

type Post struct {
	ID                      string    `json:"postId"`
	Title                   string    `json:"title"`
	Category                string    `json:"category"`
	Emotion                 string    `json:"emotion"`
	Summary                 string    `json:"summary"`
	Body                    string    `json:"body"`
	Author                  string    `json:"author"`
	URL                     string    `json:"url"`
	Subreddit               string    `json:"subreddit"`
	Created                 time.Time `json:"created"`
	Score                   int       `json:"score"`
	Sentiment               float64   `json:"sentiment"`
	WeightedSentimentScore  float64   `json:"weightedSentimentScore"`
	RawSentimentScore       float64   `json:"rawSentimentScore"`
	EngagementScore         float64   `json:"engagementScore"`
	TotalComments           int       `json:"totalComments"`
	TotalPositiveSentiments int       `json:"totalPositiveSentiments"`
	TotalNegativeSentiments int       `json:"totalNegativeSentiments"`
	IIT                     bool      `json:"iit"`
	RelatedToTemasekPoly    bool      `json:"relatedToTemasekPoly"`
}

// NormalizePost maps a raw post document to a Post. Missing or null
// fields get their defaults; a stored zero is kept.
func NormalizePost(id string, data map[string]any) Post {
	return Post{
		ID:                      id,
		Title:                   labelOr(data, "title", NoTitle),
		Category:                stringOr(data, "category", ""),
		Emotion:                 stringOr(data, "emotion", ""),
		Summary:                 stringOr(data, "summary", ""),
		Body:                    stringOr(data, "body", ""),
		Author:                  labelOr(data, "author", UnknownAuthor),
		URL:                     stringOr(data, "url", ""),
		Subreddit:               stringOr(data, "subreddit", ""),
		Created:                 ToTime(data["created"]),
		Score:                   intOr(data, "score", 0),
		Sentiment:               floatOr(data, "sentiment", 0),
		WeightedSentimentScore:  floatOr(data, "weightedSentimentScore", 0),
		RawSentimentScore:       floatOr(data, "rawSentimentScore", 0),
		EngagementScore:         floatOr(data, "engagementScore", 0),
		TotalComments:           intOr(data, "totalComments", 0),
		TotalPositiveSentiments: intOr(data, "totalPositiveSentiments", 0),
		TotalNegativeSentiments: intOr(data, "totalNegativeSentiments", 0),
		IIT:                     boolOr(data, "iit", false),
		RelatedToTemasekPoly:    boolOr(data, "relatedToTemasekPoly", false),
	}
}

package record

type Author struct {
	Name                string              `json:"name"`
	PositiveCount       int                 `json:"positiveCount"`
	NegativeCount       int                 `json:"negativeCount"`
	PostCount           int                 `json:"postCount"`
	CommentCount        int                 `json:"commentCount"`
	TotalSentimentScore float64             `json:"totalSentimentScore"`
	AverageSentiment    float64             `json:"averageSentiment"`
	Posts               []string            `json:"posts"`
	Comments            map[string][]string `json:"comments"`
}

// NormalizeAuthor maps an author aggregate document, keyed by author name.
func NormalizeAuthor(name string, data map[string]any) Author {
	return Author{
		Name:                name,
		PositiveCount:       intOr(data, "positiveCount", 0),
		NegativeCount:       intOr(data, "negativeCount", 0),
		PostCount:           intOr(data, "postCount", 0),
		CommentCount:        intOr(data, "commentCount", 0),
		TotalSentimentScore: floatOr(data, "totalSentimentScore", 0),
		AverageSentiment:    floatOr(data, "averageSentiment", 0),
		Posts:               stringsOf(data["posts"]),
		Comments:            stringListMap(data["comments"]),
	}
}

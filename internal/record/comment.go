package record

import (
	"sort"
	"time"
)

type Comment struct {
	ID        string    `json:"commentId"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Created   time.Time `json:"created"`
	Score     int       `json:"score"`
	Sentiment float64   `json:"sentiment"`
	Emotion   string    `json:"emotion"`
	Category  string    `json:"category"`
	IIT       bool      `json:"iit"`
}

func NormalizeComment(postID, id string, data map[string]any) Comment {
	return Comment{
		ID:        id,
		PostID:    postID,
		Author:    labelOr(data, "author", UnknownAuthor),
		Body:      stringOr(data, "body", ""),
		Created:   ToTime(data["created"]),
		Score:     intOr(data, "score", 0),
		Sentiment: floatOr(data, "sentiment", 0),
		Emotion:   stringOr(data, "emotion", ""),
		Category:  stringOr(data, "category", ""),
		IIT:       boolOr(data, "iit", false),
	}
}

// SortCommentsNewest orders comments by creation time, newest first.
// Ties keep their existing order.
func SortCommentsNewest(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Created.After(comments[j].Created)
	})
}

// SortCommentsOldest orders comments by creation time, oldest first.
func SortCommentsOldest(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Created.Before(comments[j].Created)
	})
}

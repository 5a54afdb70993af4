package rank

import (
	"sort"

	"github.com/julienpequegnot/sentimon/internal/record"
)

type Key string

const (
	TopEngaged  Key = "topEngaged"
	LowestWs    Key = "lowestWs"
	HighestWs   Key = "highestWs"
	LowestRaw   Key = "lowestRaw"
	HighestRaw  Key = "highestRaw"
	RecentPosts Key = "recentPosts"
)

const (
	DefaultLimit = 10
	DefaultKey   = LowestWs
)

type ordering struct {
	label string
	less  func(a, b record.Post) bool
}

var orderings = map[Key]ordering{
	TopEngaged: {"Top 10 Engaged Posts", func(a, b record.Post) bool {
		return a.EngagementScore > b.EngagementScore
	}},
	LowestWs: {"Lowest 10 Weighted Sentiment Posts", func(a, b record.Post) bool {
		return a.WeightedSentimentScore < b.WeightedSentimentScore
	}},
	HighestWs: {"Highest 10 Weighted Sentiment Posts", func(a, b record.Post) bool {
		return a.WeightedSentimentScore > b.WeightedSentimentScore
	}},
	LowestRaw: {"Lowest 10 Raw Sentiment Posts", func(a, b record.Post) bool {
		return a.RawSentimentScore < b.RawSentimentScore
	}},
	HighestRaw: {"Highest 10 Raw Sentiment Posts", func(a, b record.Post) bool {
		return a.RawSentimentScore > b.RawSentimentScore
	}},
	RecentPosts: {"10 Most Recent Posts", func(a, b record.Post) bool {
		return a.Created.After(b.Created)
	}},
}

// Keys lists the supported orderings in display order.
func Keys() []Key {
	return []Key{TopEngaged, LowestWs, HighestWs, LowestRaw, HighestRaw, RecentPosts}
}

func ParseKey(s string) (Key, bool) {
	k := Key(s)
	_, ok := orderings[k]
	return k, ok
}

func Label(k Key) string {
	if o, ok := orderings[k]; ok {
		return o.label
	}
	return string(k)
}

// Top returns the first DefaultLimit posts under key.
func Top(posts []record.Post, key Key) []record.Post {
	return TopN(posts, key, DefaultLimit)
}

// TopN sorts a copy of posts by key and returns at most n of them. Equal
// elements keep their input order. An unknown key yields an empty list.
func TopN(posts []record.Post, key Key, n int) []record.Post {
	o, ok := orderings[key]
	if !ok || n <= 0 {
		return []record.Post{}
	}

	sorted := make([]record.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return o.less(sorted[i], sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n:n]
	}
	return sorted
}

package trend

import "github.com/julienpequegnot/sentimon/internal/record"

// bucket folds the case variants of one category on one date.
type bucket struct {
	key      string
	weighted float64
	weights  int
	sum      float64
	valid    int
	uncount  bool
	stat     record.CategoryStat
	posts    map[string]bool
	comments map[string]map[string]bool
}

func newBucket(key string) *bucket {
	return &bucket{
		key:      key,
		stat:     record.CategoryStat{Key: key, PostIDs: []string{}, Comments: map[string][]string{}},
		posts:    make(map[string]bool),
		comments: make(map[string]map[string]bool),
	}
}

func (b *bucket) add(st record.CategoryStat) {
	b.stat.TotalSentiment += st.TotalSentiment
	b.stat.Count += st.Count
	b.stat.PositiveCount += st.PositiveCount
	b.stat.NegativeCount += st.NegativeCount

	if st.HasAverage {
		b.sum += st.AverageSentiment
		b.valid++
		if st.Count > 0 {
			b.weighted += st.AverageSentiment * float64(st.Count)
			b.weights += st.Count
		} else {
			b.uncount = true
		}
	}

	for _, id := range st.PostIDs {
		if !b.posts[id] {
			b.posts[id] = true
			b.stat.PostIDs = append(b.stat.PostIDs, id)
		}
	}
	for _, postID := range record.SortedKeys(st.Comments) {
		seen, ok := b.comments[postID]
		if !ok {
			seen = make(map[string]bool)
			b.comments[postID] = seen
		}
		for _, id := range st.Comments[postID] {
			if !seen[id] {
				seen[id] = true
				b.stat.Comments[postID] = append(b.stat.Comments[postID], id)
			}
		}
	}
}

// result returns the merged statistic. The average is count-weighted when
// every valid variant carries a count, otherwise a plain mean.
func (b *bucket) result() record.CategoryStat {
	st := b.stat
	switch {
	case b.valid == 0:
		st.HasAverage = false
		st.AverageSentiment = 0
	case !b.uncount && b.weights > 0:
		st.HasAverage = true
		st.AverageSentiment = b.weighted / float64(b.weights)
	default:
		st.HasAverage = true
		st.AverageSentiment = b.sum / float64(b.valid)
	}
	return st
}

// MergeCategory folds every key of day that matches category
// case-insensitively into one statistic.
func MergeCategory(day record.CategoryDay, category string) (record.CategoryStat, bool) {
	key := record.CategoryKey(category)
	b := newBucket(key)
	found := false
	for _, k := range day.Keys() {
		if record.CategoryKey(k) == key {
			b.add(day.Categories[k])
			found = true
		}
	}
	if !found {
		return record.CategoryStat{}, false
	}
	return b.result(), true
}

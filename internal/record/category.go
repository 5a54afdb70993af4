package record

import (
	"sort"
	"strings"
)

// Uncategorized replaces an empty category key.
const Uncategorized = "uncategorized"

type CategoryStat struct {
	Key              string              `json:"key"`
	AverageSentiment float64             `json:"averageSentiment"`
	HasAverage       bool                `json:"hasAverage"`
	TotalSentiment   float64             `json:"totalSentiment"`
	Count            int                 `json:"count"`
	PositiveCount    int                 `json:"positiveCount"`
	NegativeCount    int                 `json:"negativeCount"`
	PostIDs          []string            `json:"postIds"`
	Comments         map[string][]string `json:"comments"`
}

// CategoryDay is one date-keyed document of per-category statistics.
type CategoryDay struct {
	Date       string                  `json:"date"`
	Categories map[string]CategoryStat `json:"categories"`
}

// CategoryKey folds a category name to its aggregation key.
func CategoryKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Uncategorized
	}
	return key
}

func NormalizeCategoryDay(date string, data map[string]any) CategoryDay {
	day := CategoryDay{Date: date, Categories: make(map[string]CategoryStat)}
	for key, raw := range data {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		day.Categories[key] = normalizeCategoryStat(key, m)
	}
	return day
}

func normalizeCategoryStat(key string, m map[string]any) CategoryStat {
	st := CategoryStat{
		Key:            key,
		TotalSentiment: floatOr(m, "totalSentiment", 0),
		Count:          intOr(m, "count", 0),
		PositiveCount:  intOr(m, "positiveCount", 0),
		NegativeCount:  intOr(m, "negativeCount", 0),
		PostIDs:        stringsOf(m["postIds"]),
		Comments:       stringListMap(m["comments"]),
	}
	if v, ok := lookup(m, "averageSentiment"); ok {
		if f, ok := Float(v); ok {
			st.AverageSentiment = f
			st.HasAverage = true
		}
	}
	return st
}

// Keys returns the stored category keys in ascending order.
func (d CategoryDay) Keys() []string {
	keys := make([]string, 0, len(d.Categories))
	for k := range d.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

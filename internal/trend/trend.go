package trend

import (
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/record"
)

const DefaultWindow = 7

type Point struct {
	Date     string              `json:"date"`
	Value    float64             `json:"averageSentiment"`
	Valid    bool                `json:"valid"`
	Count    int                 `json:"count"`
	PostIDs  []string            `json:"postIds"`
	Comments map[string][]string `json:"comments"`
}

type Series struct {
	Category string    `json:"category"`
	Color    string    `json:"color"`
	Points   []Point   `json:"points"`
	Moving   []float64 `json:"movingAverage"`
}

// Aggregator collects category-day documents and turns them into
// per-category series.
type Aggregator struct {
	window int
	days   map[string]record.CategoryDay
}

func NewAggregator(window int) *Aggregator {
	if window < 1 {
		window = DefaultWindow
	}
	return &Aggregator{
		window: window,
		days:   make(map[string]record.CategoryDay),
	}
}

// AddDay registers a document; a later document for the same date
// replaces the earlier one.
func (a *Aggregator) AddDay(day record.CategoryDay) {
	a.days[day.Date] = day
}

func (a *Aggregator) Series(rng record.Range) []Series {
	buckets := make(map[string]map[string]*bucket)

	for date, day := range a.days {
		if _, err := time.Parse(record.DateLayout, date); err != nil {
			log.WithField("date", date).Debug("skipping category document with unparseable date")
			continue
		}
		if !rng.ContainsDate(date) {
			continue
		}
		for _, key := range day.Keys() {
			cat := record.CategoryKey(key)
			byDate, ok := buckets[cat]
			if !ok {
				byDate = make(map[string]*bucket)
				buckets[cat] = byDate
			}
			b, ok := byDate[date]
			if !ok {
				b = newBucket(cat)
				byDate[date] = b
			}
			b.add(day.Categories[key])
		}
	}

	series := make([]Series, 0, len(buckets))
	for cat, byDate := range buckets {
		dates := make([]string, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		points := make([]Point, len(dates))
		for i, date := range dates {
			st := byDate[date].result()
			points[i] = Point{
				Date:     date,
				Value:    st.AverageSentiment,
				Valid:    st.HasAverage,
				Count:    st.Count,
				PostIDs:  st.PostIDs,
				Comments: st.Comments,
			}
		}

		series = append(series, Series{
			Category: cat,
			Color:    palette.Category(cat),
			Points:   points,
			Moving:   MovingAverage(points, a.window),
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Category < series[j].Category
	})
	return series
}

// Aggregate builds one series per lower-cased category from the documents
// whose date key falls in rng.
func Aggregate(days []record.CategoryDay, rng record.Range, window int) []Series {
	a := NewAggregator(window)
	for _, d := range days {
		a.AddDay(d)
	}
	return a.Series(rng)
}

// MovingAverage is the trailing mean over up to window points ending at
// each index. Invalid points are skipped; a window without valid points
// yields 0.
func MovingAverage(points []Point, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(points))
	for i := range points {
		var sum float64
		n := 0
		for j := max(0, i-window+1); j <= i; j++ {
			if points[j].Valid {
				sum += points[j].Value
				n++
			}
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// Axis is the sorted union of dates across series.
func Axis(series []Series) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.Date] {
				seen[p.Date] = true
				dates = append(dates, p.Date)
			}
		}
	}
	sort.Strings(dates)
	return dates
}

func (s Series) Dates() []string {
	dates := make([]string, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Mean averages the valid raw points of the series.
func (s Series) Mean() (float64, bool) {
	var sum float64
	n := 0
	for _, p := range s.Points {
		if p.Valid {
			sum += p.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Point returns the point for date, if the series has one.
func (s Series) Point(date string) (Point, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Date >= date })
	if i < len(s.Points) && s.Points[i].Date == date {
		return s.Points[i], true
	}
	return Point{}, false
}

// Latest returns the most recent point.
func (s Series) Latest() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Find returns the series for a category name, case-insensitive.
func Find(series []Series, category string) (Series, bool) {
	key := record.CategoryKey(category)
	for _, s := range series {
		if s.Category == key {
			return s, true
		}
	}
	return Series{}, false
}

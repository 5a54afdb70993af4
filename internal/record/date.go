package record

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// DateLayout is the layout of date-keyed documents and range inputs.
const DateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ToTime converts a stored timestamp to time.Time. Unknown shapes yield
// the zero time.
func ToTime(v any) time.Time {
	switch t := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return t
	case *time.Time:
		if t == nil {
			return time.Time{}
		}
		return *t
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		if f, ok := Float(s); ok {
			return unixTime(f)
		}
		return time.Time{}
	case map[string]any:
		sec, ok := firstFloat(t, "seconds", "_seconds")
		if !ok {
			return time.Time{}
		}
		nsec, _ := firstFloat(t, "nanoseconds", "_nanoseconds")
		return time.Unix(int64(sec), int64(nsec)).UTC()
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return unixTime(f)
		}
		return time.Time{}
	}
	if f, ok := Float(v); ok {
		return unixTime(f)
	}
	return time.Time{}
}

func unixTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

func firstFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := lookup(m, key); ok {
			if f, ok := Float(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// DateKey formats t as a date-keyed document id.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Range is an inclusive time window. A zero Start or End is unbounded on
// that side.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseRange builds a Range from two YYYY-MM-DD strings. A malformed or
// empty bound is treated as absent; the end bound covers its whole day.
func ParseRange(start, end string) Range {
	var r Range
	if t, err := time.Parse(DateLayout, strings.TrimSpace(start)); err == nil {
		r.Start = t
	}
	if t, err := time.Parse(DateLayout, strings.TrimSpace(end)); err == nil {
		r.End = EndOfDay(t)
	}
	return r
}

// LastDays is the range covering the n calendar days ending at now.
func LastDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(n - 1))
	return Range{Start: start, End: EndOfDay(now)}
}

func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// ContainsDate reports whether a YYYY-MM-DD key falls within the range,
// compared by calendar day.
func (r Range) ContainsDate(key string) bool {
	if !r.Start.IsZero() && key < DateKey(r.Start) {
		return false
	}
	if !r.End.IsZero() && key > DateKey(r.End) {
		return false
	}
	return true
}

func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r Range) String() string {
	from, to := "*", "*"
	if !r.Start.IsZero() {
		from = DateKey(r.Start)
	}
	if !r.End.IsZero() {
		to = DateKey(r.End)
	}
	return from + ".." + to
}

package record

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

func lookup(data map[string]any, key string) (any, bool) {
	if data == nil {
		return nil, false
	}
	v, ok := data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func stringOr(data map[string]any, key, def string) string {
	v, ok := lookup(data, key)
	if !ok {
		return def
	}
	return stringOf(v)
}

// labelOr is stringOr that also replaces blank strings with def.
func labelOr(data map[string]any, key, def string) string {
	s := stringOr(data, key, def)
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Float converts numeric-like values (numbers and numeric strings) to
// float64. NaN and infinities are rejected.
func Float(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func floatOr(data map[string]any, key string, def float64) float64 {
	v, ok := lookup(data, key)
	if !ok {
		return def
	}
	if f, ok := Float(v); ok {
		return f
	}
	return def
}

func intOr(data map[string]any, key string, def int) int {
	v, ok := lookup(data, key)
	if !ok {
		return def
	}
	if f, ok := Float(v); ok {
		return int(math.Round(f))
	}
	return def
}

// Truthy interprets the boolean-like flag encodings found in stored
// documents: bools, "yes"/"no", "true"/"false", "y"/"n" and 1/0.
func Truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "y", "true", "1":
			return true
		}
		return false
	}
	if f, ok := Float(v); ok {
		return f != 0
	}
	return false
}

func boolOr(data map[string]any, key string, def bool) bool {
	v, ok := lookup(data, key)
	if !ok {
		return def
	}
	return Truthy(v)
}

func stringsOf(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, 0, len(list))
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			if s := stringOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func stringListMap(v any) map[string][]string {
	out := make(map[string][]string)
	switch m := v.(type) {
	case map[string]any:
		for key, item := range m {
			out[key] = stringsOf(item)
		}
	case map[string][]string:
		for key, item := range m {
			out[key] = stringsOf(item)
		}
	}
	return out
}

// SortedKeys returns the keys of a post-id -> comment-ids map in ascending
// order so iteration over it is deterministic.
func SortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

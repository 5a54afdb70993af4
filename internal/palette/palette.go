package palette

import (
	"sort"
	"strings"
)

const (
	Negative = "rgba(255, 99, 132, 0.8)"
	Positive = "rgba(75, 192, 192, 0.8)"
	Uniform  = "rgba(153, 102, 255, 0.8)"
	Default  = "rgba(201, 203, 207, 0.8)"

	PiePositive = "#4CAF50"
	PieNeutral  = "#FFC107"
	PieNegative = "#F44336"
)

// Colours for the category taxonomy assigned upstream
var categories = map[string]string{
	"academic":       "rgba(54, 162, 235, 0.8)",
	"exams":          "rgba(255, 99, 132, 0.8)",
	"facilities":     "rgba(255, 206, 86, 0.8)",
	"subjects":       "rgba(75, 192, 192, 0.8)",
	"administration": "rgba(153, 102, 255, 0.8)",
	"career":         "rgba(255, 159, 64, 0.8)",
	"admission":      "rgba(46, 204, 113, 0.8)",
	"results":        "rgba(231, 76, 60, 0.8)",
	"internship":     "rgba(52, 73, 94, 0.8)",
	"lecturer":       "rgba(155, 89, 182, 0.8)",
	"student life":   "rgba(241, 196, 15, 0.8)",
	"infrastructure": "rgba(127, 140, 141, 0.8)",
	"classroom":      "rgba(26, 188, 156, 0.8)",
	"events":         "rgba(230, 126, 34, 0.8)",
	"cca":            "rgba(192, 57, 43, 0.8)",
	"uncategorized":  "rgba(149, 165, 166, 0.8)",
}

// Category returns the fixed colour for a category name, case-insensitive.
func Category(name string) string {
	if c, ok := categories[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return Default
}

// Known lists the taxonomy categories that have a fixed colour.
func Known() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sign colours a score red when negative and green otherwise.
func Sign(v float64) string {
	if v < 0 {
		return Negative
	}
	return Positive
}

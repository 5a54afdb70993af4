package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// compile builds the case-insensitive literal matcher for a keyword.
var compile = func(keyword string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + regexp.QuoteMeta(keyword))
}

// Contains reports whether text contains keyword, ignoring case.
func Contains(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// Highlight wraps every case-insensitive occurrence of keyword in
// <mark></mark>.
func Highlight(text, keyword string) string {
	return HighlightWith(text, keyword, MarkOpen, MarkClose)
}

func HighlightWith(text, keyword, open, close string) string {
	return HighlightFunc(text, keyword, func(m string) string {
		return open + m + close
	})
}

// HighlightFunc replaces every occurrence of keyword with wrap(match). If
// no matcher can be built only the first occurrence is wrapped.
func HighlightFunc(text, keyword string, wrap func(string) string) string {
	if keyword == "" || text == "" {
		return text
	}
	re, err := compile(keyword)
	if err != nil {
		start, end := index(text, keyword)
		if start < 0 {
			return text
		}
		return text[:start] + wrap(text[start:end]) + text[end:]
	}
	return re.ReplaceAllStringFunc(text, wrap)
}

// index finds the byte span of the first case-insensitive occurrence of
// keyword in text, or -1.
func index(text, keyword string) (int, int) {
	lower, lowerKey := strings.ToLower(text), strings.ToLower(keyword)
	if len(lower) == len(text) && len(lowerKey) == len(keyword) {
		if i := strings.Index(lower, lowerKey); i >= 0 {
			return i, i + len(keyword)
		}
		return -1, -1
	}
	if i := strings.Index(text, keyword); i >= 0 {
		return i, i + len(keyword)
	}
	return -1, -1
}

// Excerpt returns up to radius runes either side of the first match of
// keyword, with "..." where text was cut. Without a match it returns the
// head of text.
func Excerpt(text, keyword string, radius int) string {
	if radius <= 0 {
		radius = 60
	}
	start, end := index(text, keyword)
	if keyword == "" || start < 0 {
		if utf8.RuneCountInString(text) <= 2*radius {
			return text
		}
		return string([]rune(text)[:2*radius]) + "..."
	}

	from := start
	for n := 0; n < radius && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for n := 0; n < radius && to < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	out := text[from:to]
	if from > 0 {
		out = "..." + out
	}
	if to < len(text) {
		out += "..."
	}
	return out
}

package search

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, keyword, want string
	}{
		{"Exam and exam", "exam", "<mark>Exam</mark> and <mark>exam</mark>"},
		{"no match here", "exam", "no match here"},
		{"cost is $5 (approx)", "$5 (", "cost is <mark>$5 (</mark>approx)"},
		{"a.b.c", ".", "a<mark>.</mark>b<mark>.</mark>c"},
		{"anything", "", "anything"},
		{"", "x", ""},
	}

	for _, tt := range tests {
		if got := Highlight(tt.text, tt.keyword); got != tt.want {
			t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.keyword, got, tt.want)
		}
	}
}

func TestHighlightPreservesText(t *testing.T) {
	text := "Stress before EXAMS; exam results; Exam."
	got := Highlight(text, "exam")

	if n := strings.Count(got, MarkOpen); n != 3 {
		t.Errorf("expected 3 marks, got %d in %q", n, got)
	}
	stripped := strings.NewReplacer(MarkOpen, "", MarkClose, "").Replace(got)
	if stripped != text {
		t.Errorf("text changed outside marks: %q", stripped)
	}
}

func TestHighlightFallback(t *testing.T) {
	orig := compile
	compile = func(string) (*regexp.Regexp, error) { return nil, errors.New("bad pattern") }
	defer func() { compile = orig }()

	got := Highlight("Exam then exam", "exam")
	if got != "<mark>Exam</mark> then exam" {
		t.Errorf("expected only first occurrence wrapped, got %q", got)
	}
	if got := Highlight("nothing", "exam"); got != "nothing" {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestHighlightFunc(t *testing.T) {
	got := HighlightFunc("Go go GO", "go", strings.ToUpper)
	if got != "GO GO GO" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	text := "aaaaaaaaaa exam bbbbbbbbbb"
	got := Excerpt(text, "exam", 3)
	if got != "...aa exam bb..." {
		t.Errorf("unexpected excerpt %q", got)
	}

	if got := Excerpt("short", "zzz", 10); got != "short" {
		t.Errorf("expected full short text, got %q", got)
	}
	if got := Excerpt("exam", "EXAM", 5); got != "exam" {
		t.Errorf("expected uncut excerpt, got %q", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains("Final EXAM", "exam") {
		t.Error("expected case-insensitive match")
	}
	if Contains("anything", "") {
		t.Error("empty keyword should not match")
	}
}

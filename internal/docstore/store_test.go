package docstore

import (
	"errors"
	"testing"
)

func TestCollectionsFor(t *testing.T) {
	tests := []struct {
		source string
		want   Collections
	}{
		{"", Collections{"posts", "authors", "category_stats"}},
		{"temasekpoly", Collections{"posts", "authors", "category_stats"}},
		{"TemasekPoly", Collections{"posts", "authors", "category_stats"}},
		{"SingaporePoly", Collections{"singaporepoly_posts", "singaporepoly_authors", "singaporepoly_category_stats"}},
	}

	for _, tt := range tests {
		if got := CollectionsFor(tt.source); got != tt.want {
			t.Errorf("CollectionsFor(%q) = %+v, want %+v", tt.source, got, tt.want)
		}
	}

	if got := CollectionsFor("").Comments("p1"); got != "posts/p1/comments" {
		t.Errorf("unexpected comments path %s", got)
	}
}

func TestFlagFilter(t *testing.T) {
	field, value := FlagFilter("temasekpoly")
	if field != "iit" || value != "yes" {
		t.Errorf("unexpected default flag filter %s=%v", field, value)
	}

	field, value = FlagFilter("NUS")
	if field != "relatedToTemasekPoly" || value != true {
		t.Errorf("unexpected source flag filter %s=%v", field, value)
	}

	if !Flagged("", map[string]any{"iit": "yes"}) {
		t.Error("expected iit=yes to be flagged")
	}
	if Flagged("NUS", map[string]any{"iit": "yes"}) {
		t.Error("expected other sources to use relatedToTemasekPoly")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	docs := []Document{{ID: "p1", Data: map[string]any{"title": "Hello"}}, {ID: "p2"}}
	posts := Posts(docs)
	if len(posts) != 2 || posts[0].Title != "Hello" || posts[1].ID != "p2" {
		t.Errorf("unexpected posts %+v", posts)
	}

	comments := Comments("p1", []Document{{ID: "c1", Data: map[string]any{"body": "hi"}}})
	if comments[0].PostID != "p1" || comments[0].Body != "hi" {
		t.Errorf("unexpected comments %+v", comments)
	}

	days := CategoryDays([]Document{{ID: "2024-01-01", Data: map[string]any{"exams": map[string]any{"count": 1}}}})
	if days[0].Date != "2024-01-01" || days[0].Categories["exams"].Count != 1 {
		t.Errorf("unexpected days %+v", days)
	}
}

func TestValidateSource(t *testing.T) {
	for _, source := range []string{"", "temasekpoly", "NUS", "singapore poly"} {
		if err := ValidateSource(source); err != nil {
			t.Errorf("ValidateSource(%q) = %v", source, err)
		}
	}
	for _, source := range []string{"a/b", "/", "posts/p1"} {
		if err := ValidateSource(source); !errors.Is(err, ErrInvalidSource) {
			t.Errorf("ValidateSource(%q) = %v, want ErrInvalidSource", source, err)
		}
	}
}

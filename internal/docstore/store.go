package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julienpequegnot/sentimon/internal/record"
)

// DefaultSource is the namespace stored in the unprefixed collections.
const DefaultSource = "temasekpoly"

const commentsCollection = "comments"

var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidSource = errors.New("invalid source")
)

type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type PostQuery struct {
	Source   string
	Range    record.Range
	FlagOnly bool
}

// Store reads the sentiment collections of one backend. Every source
// namespace maps to its own set of collections.
type Store interface {
	QueryPosts(ctx context.Context, q PostQuery) ([]Document, error)
	GetPost(ctx context.Context, source, id string) (Document, error)
	ListComments(ctx context.Context, source, postID string) ([]Document, error)
	GetComment(ctx context.Context, source, postID, commentID string) (Document, error)
	GetAuthor(ctx context.Context, source, name string) (Document, error)
	ListCategoryDays(ctx context.Context, source string, rng record.Range) ([]Document, error)
	GetCategoryDay(ctx context.Context, source, date string) (Document, error)
	Close() error
}

type Collections struct {
	Posts         string
	Authors       string
	CategoryStats string
}

// ValidateSource rejects source names that cannot prefix a collection id.
func ValidateSource(source string) error {
	if strings.Contains(source, "/") {
		return fmt.Errorf("%w %q: must not contain \"/\"", ErrInvalidSource, source)
	}
	return nil
}

func CollectionsFor(source string) Collections {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" || s == DefaultSource {
		return Collections{Posts: "posts", Authors: "authors", CategoryStats: "category_stats"}
	}
	return Collections{
		Posts:         s + "_posts",
		Authors:       s + "_authors",
		CategoryStats: s + "_category_stats",
	}
}

// Comments is the comment subcollection path under a post.
func (c Collections) Comments(postID string) string {
	return c.Posts + "/" + postID + "/" + commentsCollection
}

// FlagFilter is the field and value that mark a post as relevant to the
// institution for source.
func FlagFilter(source string) (string, any) {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" || s == DefaultSource {
		return "iit", "yes"
	}
	return "relatedToTemasekPoly", true
}

// Flagged applies FlagFilter to raw document data.
func Flagged(source string, data map[string]any) bool {
	field, _ := FlagFilter(source)
	return record.Truthy(data[field])
}

func Posts(docs []Document) []record.Post {
	posts := make([]record.Post, len(docs))
	for i, d := range docs {
		posts[i] = record.NormalizePost(d.ID, d.Data)
	}
	return posts
}

func Comments(postID string, docs []Document) []record.Comment {
	comments := make([]record.Comment, len(docs))
	for i, d := range docs {
		comments[i] = record.NormalizeComment(postID, d.ID, d.Data)
	}
	return comments
}

func CategoryDays(docs []Document) []record.CategoryDay {
	days := make([]record.CategoryDay, len(docs))
	for i, d := range docs {
		days[i] = record.NormalizeCategoryDay(d.ID, d.Data)
	}
	return days
}

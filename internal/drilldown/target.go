package drilldown

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindPost     Kind = "post"
	KindAuthor   Kind = "author"
	KindCategory Kind = "category"
)

// Target identifies what a selected chart element points at.
type Target struct {
	Kind     Kind   `json:"kind"`
	Source   string `json:"source"`
	PostID   string `json:"postId,omitempty"`
	Author   string `json:"author,omitempty"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Detail is the resolved record for a Target; exactly one of Post, Author
// and Category is set.
type Detail struct {
	Kind     Kind            `json:"kind"`
	State    State           `json:"state"`
	Post     *PostDetail     `json:"post,omitempty"`
	Author   *AuthorDetail   `json:"author,omitempty"`
	Category *CategoryDetail `json:"category,omitempty"`
}

func (r *Resolver) Resolve(ctx context.Context, t Target) (*Detail, error) {
	switch t.Kind {
	case KindPost:
		d, err := r.Post(ctx, t.Source, t.PostID)
		if err != nil {
			return nil, err
		}
		return &Detail{Kind: t.Kind, State: d.State, Post: d}, nil
	case KindAuthor:
		d, err := r.Author(ctx, t.Source, t.Author)
		if err != nil {
			return nil, err
		}
		return &Detail{Kind: t.Kind, State: d.State, Author: d}, nil
	case KindCategory:
		d, err := r.Category(ctx, t.Source, t.Category, t.Date)
		if err != nil {
			return nil, err
		}
		return &Detail{Kind: t.Kind, State: d.State, Category: d}, nil
	}
	return nil, fmt.Errorf("unknown drill-down kind %q", t.Kind)
}

// Failed is the error state shown when resolving a target fails outright.
func Failed(t Target) *Detail {
	return &Detail{Kind: t.Kind, State: StateError}
}

package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
)

var ErrEmptyKeyword = errors.New("search keyword is empty")

const excerptRadius = 80

type Query struct {
	Keyword  string
	Source   string
	Range    record.Range
	FlagOnly bool
}

type PostMatch struct {
	Post    record.Post `json:"post"`
	Title   string      `json:"title"`
	Body    string      `json:"body"`
	Excerpt string      `json:"excerpt"`
}

type CommentMatch struct {
	PostID    string         `json:"postId"`
	PostTitle string         `json:"postTitle"`
	Comment   record.Comment `json:"comment"`
	Body      string         `json:"body"`
}

type Result struct {
	Keyword       string         `json:"keyword"`
	Posts         []PostMatch    `json:"posts"`
	Comments      []CommentMatch `json:"comments"`
	Scanned       int            `json:"scanned"`
	CommentErrors int            `json:"commentErrors"`
}

// Engine matches a keyword against posts in a date range and every
// comment under them.
type Engine struct {
	store docstore.Store
	pool  *fanout.Pool
}

func NewEngine(store docstore.Store, pool *fanout.Pool) *Engine {
	if pool == nil {
		pool = fanout.New(fanout.DefaultLimit)
	}
	return &Engine{store: store, pool: pool}
}

func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	keyword := strings.TrimSpace(q.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	docs, err := e.store.QueryPosts(ctx, docstore.PostQuery{Source: q.Source, Range: q.Range, FlagOnly: q.FlagOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	posts := docstore.Posts(docs)

	res := &Result{
		Keyword:  keyword,
		Posts:    []PostMatch{},
		Comments: []CommentMatch{},
		Scanned:  len(posts),
	}
	for _, p := range posts {
		if Contains(p.Title, keyword) || Contains(p.Body, keyword) {
			res.Posts = append(res.Posts, PostMatch{
				Post:    p,
				Title:   Highlight(p.Title, keyword),
				Body:    Highlight(p.Body, keyword),
				Excerpt: Highlight(Excerpt(p.Body, keyword, excerptRadius), keyword),
			})
		}
	}

	matches := make([][]CommentMatch, len(posts))
	errs := e.pool.Run(ctx, len(posts), func(ctx context.Context, i int) error {
		docs, err := e.store.ListComments(ctx, q.Source, posts[i].ID)
		if err != nil {
			return err
		}
		comments := docstore.Comments(posts[i].ID, docs)
		record.SortCommentsOldest(comments)
		for _, c := range comments {
			if Contains(c.Body, keyword) {
				matches[i] = append(matches[i], CommentMatch{
					PostID:    posts[i].ID,
					PostTitle: posts[i].Title,
					Comment:   c,
					Body:      Highlight(c.Body, keyword),
				})
			}
		}
		return nil
	})

	for i, err := range errs {
		if err != nil {
			log.WithError(err).WithField("post_id", posts[i].ID).Warn("comment search skipped post")
			res.CommentErrors++
			continue
		}
		res.Comments = append(res.Comments, matches[i]...)
	}

	log.WithFields(log.Fields{
		"keyword":  keyword,
		"scanned":  res.Scanned,
		"posts":    len(res.Posts),
		"comments": len(res.Comments),
		"failed":   res.CommentErrors,
	}).Debug("search complete")

	return res, nil
}

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
)

type MirrorStats struct {
	Posts        int `json:"posts"`
	Comments     int `json:"comments"`
	Authors      int `json:"authors"`
	CategoryDays int `json:"categoryDays"`
	Failed       int `json:"failed"`
	// Total is the number of posts held by the mirror after the run.
	Total int `json:"total"`
}

// LastSyncKey is the sync_state key holding the last mirror time of source.
func LastSyncKey(source string) string {
	return "last_sync:" + CollectionsFor(source).Posts
}

// Mirror copies the posts of source in rng, their comments, the authors
// they reference and the category days in rng from src into dst. Failures
// on single documents are logged and counted; the run continues.
func Mirror(ctx context.Context, src Store, dst *SQLite, pool *fanout.Pool, source string, rng record.Range) (MirrorStats, error) {
	var stats MirrorStats
	logger := log.WithFields(log.Fields{"source": source, "range": rng.String()})

	posts, err := src.QueryPosts(ctx, PostQuery{Source: source, Range: rng})
	if err != nil {
		return stats, err
	}

	authors := make(map[string]bool)
	for _, doc := range posts {
		if err := dst.PutPost(ctx, source, doc); err != nil {
			logger.WithError(err).WithField("post_id", doc.ID).Warn("failed to mirror post")
			stats.Failed++
			continue
		}
		stats.Posts++
		authors[record.NormalizePost(doc.ID, doc.Data).Author] = true
	}

	comments := make([][]Document, len(posts))
	errs := pool.Run(ctx, len(posts), func(ctx context.Context, i int) error {
		docs, err := src.ListComments(ctx, source, posts[i].ID)
		if err != nil {
			return err
		}
		comments[i] = docs
		return nil
	})
	for i, docs := range comments {
		if errs[i] != nil {
			logger.WithError(errs[i]).WithField("post_id", posts[i].ID).Warn("failed to fetch comments")
			stats.Failed++
			continue
		}
		for _, doc := range docs {
			if err := dst.PutComment(ctx, source, posts[i].ID, doc); err != nil {
				logger.WithError(err).WithField("comment_id", doc.ID).Warn("failed to mirror comment")
				stats.Failed++
				continue
			}
			stats.Comments++
			authors[record.NormalizeComment(posts[i].ID, doc.ID, doc.Data).Author] = true
		}
	}

	delete(authors, record.UnknownAuthor)
	names := make([]string, 0, len(authors))
	for name := range authors {
		names = append(names, name)
	}
	sort.Strings(names)

	authorDocs := make([]*Document, len(names))
	errs = pool.Run(ctx, len(names), func(ctx context.Context, i int) error {
		doc, err := src.GetAuthor(ctx, source, names[i])
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		authorDocs[i] = &doc
		return nil
	})
	for i, doc := range authorDocs {
		if errs[i] != nil {
			logger.WithError(errs[i]).WithField("author", names[i]).Warn("failed to fetch author")
			stats.Failed++
			continue
		}
		if doc == nil {
			continue
		}
		if err := dst.PutAuthor(ctx, source, *doc); err != nil {
			logger.WithError(err).WithField("author", names[i]).Warn("failed to mirror author")
			stats.Failed++
			continue
		}
		stats.Authors++
	}

	days, err := src.ListCategoryDays(ctx, source, rng)
	if err != nil {
		return stats, fmt.Errorf("failed to mirror category stats: %w", err)
	}
	for _, doc := range days {
		if err := dst.PutCategoryDay(ctx, source, doc); err != nil {
			logger.WithError(err).WithField("date", doc.ID).Warn("failed to mirror category day")
			stats.Failed++
			continue
		}
		stats.CategoryDays++
	}

	if err := dst.SetState(ctx, LastSyncKey(source), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return stats, err
	}

	total, err := dst.Count(ctx, source)
	if err != nil {
		return stats, err
	}
	stats.Total = total

	logger.WithFields(log.Fields{
		"posts":         stats.Posts,
		"comments":      stats.Comments,
		"authors":       stats.Authors,
		"category_days": stats.CategoryDays,
		"failed":        stats.Failed,
		"total":         stats.Total,
	}).Info("mirror complete")

	return stats, nil
}

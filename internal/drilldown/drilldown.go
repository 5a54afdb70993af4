package drilldown

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateEmpty    State = "empty"
	StateNotFound State = "notFound"
	StateError    State = "error"
)

// Unavailable stands in for the title or body of a record that could not
// be fetched.
const Unavailable = "unavailable"

type PostItem struct {
	Post        record.Post `json:"post"`
	Badges      []Badge     `json:"badges"`
	Unavailable bool        `json:"unavailable"`
}

type CommentItem struct {
	Comment     record.Comment `json:"comment"`
	PostTitle   string         `json:"postTitle"`
	Badges      []Badge        `json:"badges"`
	Unavailable bool           `json:"unavailable"`
}

type PostDetail struct {
	State               State         `json:"state"`
	Post                record.Post   `json:"post"`
	Badges              []Badge       `json:"badges"`
	Comments            []CommentItem `json:"comments"`
	CommentsUnavailable bool          `json:"commentsUnavailable"`
}

type AuthorDetail struct {
	State    State         `json:"state"`
	Author   record.Author `json:"author"`
	Posts    []PostItem    `json:"posts"`
	Comments []CommentItem `json:"comments"`
	Failed   int           `json:"failed"`
}

type CategoryDetail struct {
	State    State               `json:"state"`
	Category string              `json:"category"`
	Date     string              `json:"date"`
	Stat     record.CategoryStat `json:"stat"`
	Posts    []PostItem          `json:"posts"`
	Comments []CommentItem       `json:"comments"`
	Failed   int                 `json:"failed"`
}

// Resolver loads the full records behind a selected chart element.
type Resolver struct {
	store docstore.Store
	pool  *fanout.Pool
}

func NewResolver(store docstore.Store, pool *fanout.Pool) *Resolver {
	if pool == nil {
		pool = fanout.New(fanout.DefaultLimit)
	}
	return &Resolver{store: store, pool: pool}
}

func (r *Resolver) Post(ctx context.Context, source, postID string) (*PostDetail, error) {
	doc, err := r.store.GetPost(ctx, source, postID)
	if errors.Is(err, docstore.ErrNotFound) {
		return &PostDetail{State: StateNotFound, Post: record.Post{ID: postID}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post %s: %w", postID, err)
	}

	post := record.NormalizePost(doc.ID, doc.Data)
	detail := &PostDetail{
		State:    StateReady,
		Post:     post,
		Badges:   Badges(post),
		Comments: []CommentItem{},
	}

	docs, err := r.store.ListComments(ctx, source, postID)
	if err != nil {
		log.WithError(err).WithField("post_id", postID).Warn("failed to load comments")
		detail.CommentsUnavailable = true
		return detail, nil
	}

	comments := docstore.Comments(postID, docs)
	record.SortCommentsNewest(comments)
	for _, c := range comments {
		detail.Comments = append(detail.Comments, CommentItem{
			Comment:   c,
			PostTitle: post.Title,
			Badges:    CommentBadges(c),
		})
	}
	return detail, nil
}

func (r *Resolver) Author(ctx context.Context, source, name string) (*AuthorDetail, error) {
	doc, err := r.store.GetAuthor(ctx, source, name)
	if errors.Is(err, docstore.ErrNotFound) {
		return &AuthorDetail{State: StateNotFound, Author: record.Author{Name: name}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load author %s: %w", name, err)
	}

	author := record.NormalizeAuthor(doc.ID, doc.Data)
	posts, comments, failed := r.expand(ctx, source, author.Posts, author.Comments)

	state := StateReady
	if len(posts) == 0 && len(comments) == 0 {
		state = StateEmpty
	}
	return &AuthorDetail{
		State:    state,
		Author:   author,
		Posts:    posts,
		Comments: comments,
		Failed:   failed,
	}, nil
}

func (r *Resolver) Category(ctx context.Context, source, category, date string) (*CategoryDetail, error) {
	detail := &CategoryDetail{
		State:    StateNotFound,
		Category: record.CategoryKey(category),
		Date:     date,
		Posts:    []PostItem{},
		Comments: []CommentItem{},
	}

	doc, err := r.store.GetCategoryDay(ctx, source, date)
	if errors.Is(err, docstore.ErrNotFound) {
		return detail, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category stats for %s: %w", date, err)
	}

	stat, ok := trend.MergeCategory(record.NormalizeCategoryDay(doc.ID, doc.Data), category)
	if !ok {
		return detail, nil
	}

	detail.Stat = stat
	detail.Posts, detail.Comments, detail.Failed = r.expand(ctx, source, stat.PostIDs, stat.Comments)
	detail.State = StateReady
	if len(stat.PostIDs) == 0 && len(stat.Comments) == 0 {
		detail.State = StateEmpty
	}
	return detail, nil
}

type commentRef struct {
	postID, commentID string
}

// expand fetches the listed posts and comments concurrently. Every parent
// post is fetched once and shared between the post list and comment
// titles. Records that fail to load become placeholders.
func (r *Resolver) expand(ctx context.Context, source string, postIDs []string, commentIDs map[string][]string) ([]PostItem, []CommentItem, int) {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range postIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	parents := record.SortedKeys(commentIDs)
	for _, id := range parents {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	fetched := make([]*record.Post, len(ids))
	errs := r.pool.Run(ctx, len(ids), func(ctx context.Context, i int) error {
		doc, err := r.store.GetPost(ctx, source, ids[i])
		if err != nil {
			return err
		}
		p := record.NormalizePost(doc.ID, doc.Data)
		fetched[i] = &p
		return nil
	})

	byID := make(map[string]*record.Post, len(ids))
	for i, id := range ids {
		if errs[i] != nil {
			if !errors.Is(errs[i], docstore.ErrNotFound) {
				log.WithError(errs[i]).WithField("post_id", id).Warn("failed to load post")
			}
			continue
		}
		byID[id] = fetched[i]
	}

	// failed counts placeholders only; a parent fetched just for a comment
	// title shows as an unavailable title instead.
	failed := 0
	posts := make([]PostItem, 0, len(postIDs))
	listed := make(map[string]bool)
	for _, id := range postIDs {
		if listed[id] {
			continue
		}
		listed[id] = true
		if p, ok := byID[id]; ok {
			posts = append(posts, PostItem{Post: *p, Badges: Badges(*p)})
			continue
		}
		failed++
		posts = append(posts, PostItem{Post: record.Post{ID: id, Title: Unavailable}, Unavailable: true})
	}

	var refs []commentRef
	for _, postID := range parents {
		for _, id := range commentIDs[postID] {
			refs = append(refs, commentRef{postID: postID, commentID: id})
		}
	}

	loaded := make([]*record.Comment, len(refs))
	errs = r.pool.Run(ctx, len(refs), func(ctx context.Context, i int) error {
		doc, err := r.store.GetComment(ctx, source, refs[i].postID, refs[i].commentID)
		if err != nil {
			return err
		}
		c := record.NormalizeComment(refs[i].postID, doc.ID, doc.Data)
		loaded[i] = &c
		return nil
	})

	comments := make([]CommentItem, 0, len(refs))
	for i, ref := range refs {
		title := Unavailable
		if p, ok := byID[ref.postID]; ok {
			title = p.Title
		}
		if errs[i] != nil {
			if !errors.Is(errs[i], docstore.ErrNotFound) {
				log.WithError(errs[i]).WithFields(log.Fields{
					"post_id":    ref.postID,
					"comment_id": ref.commentID,
				}).Warn("failed to load comment")
			}
			failed++
			comments = append(comments, CommentItem{
				Comment:     record.Comment{ID: ref.commentID, PostID: ref.postID, Author: record.UnknownAuthor, Body: Unavailable},
				PostTitle:   title,
				Unavailable: true,
			})
			continue
		}
		comments = append(comments, CommentItem{
			Comment:   *loaded[i],
			PostTitle: title,
			Badges:    CommentBadges(*loaded[i]),
		})
	}

	return posts, comments, failed
}

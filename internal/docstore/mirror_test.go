package docstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/docstore/docstoretest"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/record"
)

func TestMirror(t *testing.T) {
	ctx := context.Background()
	src := docstoretest.New()
	src.AddPost("", "p1", map[string]any{"title": "One", "author": "alice", "created": "2024-01-02T00:00:00Z"})
	src.AddPost("", "p2", map[string]any{"title": "Two", "author": "bob", "created": "2024-01-03T00:00:00Z"})
	src.AddPost("", "p3", map[string]any{"title": "Out of range", "created": "2023-12-01T00:00:00Z"})
	src.AddComment("", "p1", "c1", map[string]any{"body": "hi", "author": "carol"})
	src.AddComment("", "p2", "c2", map[string]any{"body": "lost"})
	src.AddAuthor("", "alice", map[string]any{"postCount": 1})
	src.AddAuthor("", "carol", map[string]any{"commentCount": 1})
	src.AddCategoryDay("", "2024-01-02", map[string]any{"exams": map[string]any{"count": 1}})
	src.AddCategoryDay("", "2023-12-01", map[string]any{"exams": map[string]any{"count": 1}})
	src.Fail("posts/p2/comments", errors.New("unavailable"))

	dst, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Close()

	stats, err := docstore.Mirror(ctx, src, dst, fanout.New(2), "", record.ParseRange("2024-01-01", "2024-01-31"))
	if err != nil {
		t.Fatalf("mirror failed: %v", err)
	}

	if stats.Posts != 2 || stats.Comments != 1 || stats.Authors != 2 || stats.CategoryDays != 1 || stats.Failed != 1 || stats.Total != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if _, err := dst.GetAuthor(ctx, "", "carol"); err != nil {
		t.Errorf("expected comment author to be mirrored: %v", err)
	}
	if _, err := dst.GetAuthor(ctx, "", "bob"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected bob to be absent, got %v", err)
	}
	if _, ok, _ := dst.GetState(ctx, docstore.LastSyncKey("")); !ok {
		t.Error("expected last sync time to be recorded")
	}

	docs, err := dst.QueryPosts(ctx, docstore.PostQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "p2" {
		t.Errorf("unexpected mirrored posts %+v", docs)
	}
}

func TestMirrorPostQueryFailure(t *testing.T) {
	src := docstoretest.New()
	src.Fail("posts", errors.New("permission denied"))

	dst, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Close()

	if _, err := docstore.Mirror(context.Background(), src, dst, fanout.New(2), "", record.Range{}); err == nil {
		t.Error("expected post query failure to be returned")
	}
}

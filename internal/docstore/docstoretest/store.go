// Package docstoretest provides an in-memory docstore.Store for tests.
package docstoretest

import (
	"context"
	"sort"
	"sync"

	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/record"
)

// Store keeps documents in memory, keyed by collection path. Errors can be
// injected per path with Fail.
type Store struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]any
	failures map[string]error
	calls    map[string]int
	gates    map[string]*gate
	closed   bool
}

type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func New() *Store {
	return &Store{
		docs:     make(map[string]map[string]map[string]any),
		failures: make(map[string]error),
		calls:    make(map[string]int),
		gates:    make(map[string]*gate),
	}
}

func (s *Store) Put(collection, id string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.docs[collection]
	if !ok {
		col = make(map[string]map[string]any)
		s.docs[collection] = col
	}
	col[id] = data
}

func (s *Store) AddPost(source, id string, data map[string]any) {
	s.Put(docstore.CollectionsFor(source).Posts, id, data)
}

func (s *Store) AddComment(source, postID, id string, data map[string]any) {
	s.Put(docstore.CollectionsFor(source).Comments(postID), id, data)
}

func (s *Store) AddAuthor(source, name string, data map[string]any) {
	s.Put(docstore.CollectionsFor(source).Authors, name, data)
}

func (s *Store) AddCategoryDay(source, date string, data map[string]any) {
	s.Put(docstore.CollectionsFor(source).CategoryStats, date, data)
}

// Fail makes every read of path return err. path is a collection path
// ("posts", "posts/p1/comments") or a document path ("posts/p1").
func (s *Store) Fail(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = err
}

// Calls reports how many reads hit path.
func (s *Store) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Block holds every read of path until release is called. entered
// receives once for each read that reaches the block.
func (s *Store) Block(path string) (entered <-chan struct{}, release func()) {
	g := &gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
	s.mu.Lock()
	s.gates[path] = g
	s.mu.Unlock()
	return g.entered, func() { g.once.Do(func() { close(g.release) }) }
}

func (s *Store) hit(path string) error {
	s.mu.Lock()
	s.calls[path]++
	err := s.failures[path]
	g := s.gates[path]
	s.mu.Unlock()

	if g != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	return err
}

func (s *Store) all(collection string) []docstore.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]docstore.Document, 0, len(s.docs[collection]))
	for id, data := range s.docs[collection] {
		docs = append(docs, docstore.Document{ID: id, Data: data})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (s *Store) get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, err
	}
	path := collection + "/" + id
	if err := s.hit(path); err != nil {
		return docstore.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[collection][id]
	if !ok {
		return docstore.Document{}, docstore.ErrNotFound
	}
	return docstore.Document{ID: id, Data: data}, nil
}

func (s *Store) QueryPosts(ctx context.Context, q docstore.PostQuery) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collection := docstore.CollectionsFor(q.Source).Posts
	if err := s.hit(collection); err != nil {
		return nil, err
	}

	type entry struct {
		doc     docstore.Document
		created int64
	}
	var entries []entry
	for _, d := range s.all(collection) {
		created := record.ToTime(d.Data["created"])
		if created.IsZero() || !q.Range.Contains(created) {
			continue
		}
		if q.FlagOnly && !docstore.Flagged(q.Source, d.Data) {
			continue
		}
		entries = append(entries, entry{doc: d, created: created.UnixNano()})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].created > entries[j].created })

	docs := make([]docstore.Document, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return docs, nil
}

func (s *Store) GetPost(ctx context.Context, source, id string) (docstore.Document, error) {
	return s.get(ctx, docstore.CollectionsFor(source).Posts, id)
}

func (s *Store) ListComments(ctx context.Context, source, postID string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collection := docstore.CollectionsFor(source).Comments(postID)
	if err := s.hit(collection); err != nil {
		return nil, err
	}
	return s.all(collection), nil
}

func (s *Store) GetComment(ctx context.Context, source, postID, commentID string) (docstore.Document, error) {
	return s.get(ctx, docstore.CollectionsFor(source).Comments(postID), commentID)
}

func (s *Store) GetAuthor(ctx context.Context, source, name string) (docstore.Document, error) {
	return s.get(ctx, docstore.CollectionsFor(source).Authors, name)
}

func (s *Store) ListCategoryDays(ctx context.Context, source string, rng record.Range) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collection := docstore.CollectionsFor(source).CategoryStats
	if err := s.hit(collection); err != nil {
		return nil, err
	}
	var docs []docstore.Document
	for _, d := range s.all(collection) {
		if rng.ContainsDate(d.ID) {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (s *Store) GetCategoryDay(ctx context.Context, source, date string) (docstore.Document, error) {
	return s.get(ctx, docstore.CollectionsFor(source).CategoryStats, date)
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ docstore.Store = (*Store)(nil)

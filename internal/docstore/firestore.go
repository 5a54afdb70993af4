package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/julienpequegnot/sentimon/internal/record"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore reads the collections written by the upstream pipeline.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

// collections resolves the collection ids of source, rejecting sources the
// client cannot address.
func (f *Firestore) collections(source string) (Collections, error) {
	if err := ValidateSource(source); err != nil {
		return Collections{}, err
	}
	return CollectionsFor(source), nil
}

func (f *Firestore) collection(id string) (*firestore.CollectionRef, error) {
	col := f.client.Collection(id)
	if col == nil {
		return nil, fmt.Errorf("%w: collection %q", ErrInvalidSource, id)
	}
	return col, nil
}

// doc is col/id, or nil when id does not name a single document.
func doc(col *firestore.CollectionRef, id string) *firestore.DocumentRef {
	if col == nil || id == "" || strings.Contains(id, "/") {
		return nil
	}
	return col.Doc(id)
}

// comments is the comment subcollection of a post, or nil when postID is
// not addressable.
func (f *Firestore) comments(source, postID string) (*firestore.CollectionRef, error) {
	c, err := f.collections(source)
	if err != nil {
		return nil, err
	}
	posts, err := f.collection(c.Posts)
	if err != nil {
		return nil, err
	}
	ref := doc(posts, postID)
	if ref == nil {
		return nil, nil
	}
	return ref.Collection(commentsCollection), nil
}

func (f *Firestore) QueryPosts(ctx context.Context, q PostQuery) ([]Document, error) {
	c, err := f.collections(q.Source)
	if err != nil {
		return nil, err
	}
	col, err := f.collection(c.Posts)
	if err != nil {
		return nil, err
	}

	query := col.OrderBy("created", firestore.Desc)
	if !q.Range.Start.IsZero() {
		query = query.Where("created", ">=", q.Range.Start)
	}
	if !q.Range.End.IsZero() {
		query = query.Where("created", "<=", q.Range.End)
	}
	if q.FlagOnly {
		field, value := FlagFilter(q.Source)
		query = query.Where(field, "==", value)
	}

	docs, err := collect(query.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	return docs, nil
}

func (f *Firestore) GetPost(ctx context.Context, source, id string) (Document, error) {
	c, err := f.collections(source)
	if err != nil {
		return Document{}, err
	}
	col, err := f.collection(c.Posts)
	if err != nil {
		return Document{}, err
	}
	return f.get(ctx, doc(col, id))
}

func (f *Firestore) ListComments(ctx context.Context, source, postID string) ([]Document, error) {
	col, err := f.comments(source, postID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return []Document{}, nil
	}
	docs, err := collect(col.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for %s: %w", postID, err)
	}
	return docs, nil
}

func (f *Firestore) GetComment(ctx context.Context, source, postID, commentID string) (Document, error) {
	col, err := f.comments(source, postID)
	if err != nil {
		return Document{}, err
	}
	return f.get(ctx, doc(col, commentID))
}

func (f *Firestore) GetAuthor(ctx context.Context, source, name string) (Document, error) {
	c, err := f.collections(source)
	if err != nil {
		return Document{}, err
	}
	col, err := f.collection(c.Authors)
	if err != nil {
		return Document{}, err
	}
	return f.get(ctx, doc(col, name))
}

func (f *Firestore) ListCategoryDays(ctx context.Context, source string, rng record.Range) ([]Document, error) {
	c, err := f.collections(source)
	if err != nil {
		return nil, err
	}
	col, err := f.collection(c.CategoryStats)
	if err != nil {
		return nil, err
	}

	query := col.OrderBy(firestore.DocumentID, firestore.Asc)
	if !rng.Start.IsZero() {
		query = query.Where(firestore.DocumentID, ">=", col.Doc(record.DateKey(rng.Start)))
	}
	if !rng.End.IsZero() {
		query = query.Where(firestore.DocumentID, "<=", col.Doc(record.DateKey(rng.End)))
	}

	docs, err := collect(query.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list category stats: %w", err)
	}
	return docs, nil
}

func (f *Firestore) GetCategoryDay(ctx context.Context, source, date string) (Document, error) {
	c, err := f.collections(source)
	if err != nil {
		return Document{}, err
	}
	col, err := f.collection(c.CategoryStats)
	if err != nil {
		return Document{}, err
	}
	return f.get(ctx, doc(col, date))
}

func (f *Firestore) get(ctx context.Context, ref *firestore.DocumentRef) (Document, error) {
	if ref == nil || ref.ID == "" {
		return Document{}, ErrNotFound
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get %s: %w", ref.Path, err)
	}
	if !snap.Exists() {
		return Document{}, ErrNotFound
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func collect(it *firestore.DocumentIterator) ([]Document, error) {
	defer it.Stop()

	docs := []Document{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
}

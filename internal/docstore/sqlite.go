package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julienpequegnot/sentimon/internal/database"
	"github.com/julienpequegnot/sentimon/internal/record"
)

// createdLayout is fixed width so stored timestamps sort as strings.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite is a local mirror of the upstream collections, one JSON payload
// per document.
type SQLite struct {
	db *database.DB
}

func NewSQLite(db *database.DB) *SQLite {
	return &SQLite{db: db}
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	return NewSQLite(db), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatCreated(t time.Time) string {
	return t.UTC().Format(createdLayout)
}

func (s *SQLite) QueryPosts(ctx context.Context, q PostQuery) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = ? AND parent = '' AND created IS NOT NULL`
	args := []any{CollectionsFor(q.Source).Posts}
	if !q.Range.Start.IsZero() {
		query += ` AND created >= ?`
		args = append(args, formatCreated(q.Range.Start))
	}
	if !q.Range.End.IsZero() {
		query += ` AND created <= ?`
		args = append(args, formatCreated(q.Range.End))
	}
	query += ` ORDER BY created DESC, id DESC`

	docs, err := s.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	if !q.FlagOnly {
		return docs, nil
	}

	flagged := docs[:0]
	for _, d := range docs {
		if Flagged(q.Source, d.Data) {
			flagged = append(flagged, d)
		}
	}
	return flagged, nil
}

func (s *SQLite) GetPost(ctx context.Context, source, id string) (Document, error) {
	return s.get(ctx, CollectionsFor(source).Posts, "", id)
}

func (s *SQLite) ListComments(ctx context.Context, source, postID string) ([]Document, error) {
	docs, err := s.list(ctx, `
		SELECT id, data FROM documents
		WHERE collection = ? AND parent = ?
		ORDER BY created ASC, id ASC
	`, CollectionsFor(source).Posts+"/"+commentsCollection, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for %s: %w", postID, err)
	}
	return docs, nil
}

func (s *SQLite) GetComment(ctx context.Context, source, postID, commentID string) (Document, error) {
	return s.get(ctx, CollectionsFor(source).Posts+"/"+commentsCollection, postID, commentID)
}

func (s *SQLite) GetAuthor(ctx context.Context, source, name string) (Document, error) {
	return s.get(ctx, CollectionsFor(source).Authors, "", name)
}

func (s *SQLite) ListCategoryDays(ctx context.Context, source string, rng record.Range) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = ? AND parent = ''`
	args := []any{CollectionsFor(source).CategoryStats}
	if !rng.Start.IsZero() {
		query += ` AND id >= ?`
		args = append(args, record.DateKey(rng.Start))
	}
	if !rng.End.IsZero() {
		query += ` AND id <= ?`
		args = append(args, record.DateKey(rng.End))
	}
	query += ` ORDER BY id ASC`

	docs, err := s.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list category stats: %w", err)
	}
	return docs, nil
}

func (s *SQLite) GetCategoryDay(ctx context.Context, source, date string) (Document, error) {
	return s.get(ctx, CollectionsFor(source).CategoryStats, "", date)
}

func (s *SQLite) PutPost(ctx context.Context, source string, doc Document) error {
	return s.put(ctx, CollectionsFor(source).Posts, "", doc, record.ToTime(doc.Data["created"]))
}

func (s *SQLite) PutComment(ctx context.Context, source, postID string, doc Document) error {
	return s.put(ctx, CollectionsFor(source).Posts+"/"+commentsCollection, postID, doc, record.ToTime(doc.Data["created"]))
}

func (s *SQLite) PutAuthor(ctx context.Context, source string, doc Document) error {
	return s.put(ctx, CollectionsFor(source).Authors, "", doc, time.Time{})
}

func (s *SQLite) PutCategoryDay(ctx context.Context, source string, doc Document) error {
	return s.put(ctx, CollectionsFor(source).CategoryStats, "", doc, time.Time{})
}

func (s *SQLite) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

func (s *SQLite) GetState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read sync state: %w", err)
	}
	return value, true, nil
}

// Count returns the number of mirrored posts for source.
func (s *SQLite) Count(ctx context.Context, source string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents WHERE collection = ? AND parent = ''
	`, CollectionsFor(source).Posts).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (s *SQLite) put(ctx context.Context, collection, parent string, doc Document, created time.Time) error {
	if doc.ID == "" {
		return fmt.Errorf("document in %s has no id", collection)
	}
	payload, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, doc.ID, err)
	}

	var createdCol any
	if !created.IsZero() {
		createdCol = formatCreated(created)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, parent, id, created, data, synced_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, parent, id) DO UPDATE SET
			created = excluded.created,
			data = excluded.data,
			synced_at = CURRENT_TIMESTAMP
	`, collection, parent, doc.ID, createdCol, string(payload))
	if err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

func (s *SQLite) get(ctx context.Context, collection, parent, id string) (Document, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM documents WHERE collection = ? AND parent = ? AND id = ?
	`, collection, parent, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	data, err := decode(payload)
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (s *SQLite) list(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		data, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", id, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, rows.Err()
}

func decode(payload string) (map[string]any, error) {
	data := make(map[string]any)
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}

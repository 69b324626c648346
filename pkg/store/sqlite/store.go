// Package sqlite implements the dictionary store adapter on an embedded
// SQLite database. Term documents are stored as JSON rows and the
// enumeration graph as an edge table; code-section queries use the
// JSON1 functions as the search view.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/harriteja/dict-go-sdk/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS terms (
	key TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
	from_key  TEXT NOT NULL,
	predicate TEXT NOT NULL,
	path      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_key, predicate);
`

// Options represents store configuration options
type Options struct {
	// Path of the database file; ":memory:" opens an in-memory store
	Path string
	// BusyTimeout for lock contention
	BusyTimeout time.Duration
	// KeyField is the term document key tag (e.g. "_key")
	KeyField string
	// CodeSection is the code section tag (e.g. "_code")
	CodeSection string
	// EnumPredicate is the enumeration edge predicate
	EnumPredicate string
	// Logger instance
	Logger *zap.Logger
}

// Store is a dictionary store backed by SQLite
type Store struct {
	db            *sql.DB
	keyField      string
	codeSection   string
	enumPredicate string
	logger        *zap.Logger
}

// New opens the database at opts.Path and initializes the schema
func New(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("store path is required")
	}
	if opts.KeyField == "" || opts.CodeSection == "" || opts.EnumPredicate == "" {
		return nil, errors.New("key field, code section and enum predicate are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BusyTimeout == 0 {
		opts.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// modernc.org/sqlite serializes access through a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds())); err != nil {
		logger.Warn("Failed to set busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Warn("Failed to set journal_mode=WAL", zap.Error(err))
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	logger.Info("Dictionary store opened", zap.String("path", opts.Path))

	return &Store{
		db:            db,
		keyField:      opts.KeyField,
		codeSection:   opts.CodeSection,
		enumPredicate: opts.EnumPredicate,
		logger:        logger,
	}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchTerm implements store.Adapter.FetchTerm
func (s *Store) FetchTerm(ctx context.Context, id string) (map[string]interface{}, []string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM terms WHERE key = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to fetch term")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, nil, errors.Wrapf(err, "corrupt term document %q", id)
	}

	paths, err := s.enumPaths(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return doc, paths, nil
}

// enumPaths flattens the paths of all enumeration edges leaving id,
// preserving edge order and dropping duplicate entries.
func (s *Store) enumPaths(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path FROM edges WHERE from_key = ? AND predicate = ?",
		id, s.enumPredicate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch enumeration edges")
	}
	defer rows.Close()

	var merged []string
	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan edge path")
		}
		var path []string
		if err := json.Unmarshal([]byte(raw), &path); err != nil {
			return nil, errors.Wrapf(err, "corrupt edge path for %q", id)
		}
		for _, key := range path {
			if !seen[key] {
				seen[key] = true
				merged = append(merged, key)
			}
		}
	}
	return merged, rows.Err()
}

// QueryByCode implements store.Adapter.QueryByCode
func (s *Store) QueryByCode(ctx context.Context, field string, value interface{}, enumType string) ([]string, error) {
	// Field names are interpolated into the JSON path; reject anything
	// outside the key grammar.
	if !store.IsValidKeyValue(field) {
		return nil, errors.Errorf("invalid code field name %q", field)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT t.key
		FROM terms t
		JOIN edges e ON e.from_key = t.key AND e.predicate = ?
		WHERE json_extract(t.doc, '$.%s.%s') = ?
		  AND EXISTS (SELECT 1 FROM json_each(e.path) WHERE json_each.value = ?)
		ORDER BY t.key`,
		s.codeSection, field)

	rows, err := s.db.QueryContext(ctx, query, s.enumPredicate, value, enumType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query by code")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan term key")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DocumentExists implements store.Adapter.DocumentExists
func (s *Store) DocumentExists(ctx context.Context, collection, key string) (bool, error) {
	if !store.IsValidCollectionName(collection) {
		return false, errors.Errorf("invalid collection name %q", collection)
	}
	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	var one int
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE key = ?", collection), key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check document")
	}
	return true, nil
}

// CollectionExists implements store.Adapter.CollectionExists
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check collection")
	}
	return true, nil
}

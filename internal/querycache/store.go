package querycache

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"

	"kinocache/internal/logging"
	"kinocache/internal/metrics"
)

const (
	statQuery = "num_query"
	statHit   = "num_hit"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cache (
    key TEXT UNIQUE,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stats (
    key TEXT UNIQUE,
    value INT NOT NULL
);
`

// FetchFunc retrieves the raw upstream payload for a missing key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Stats reports cache usage since the store was created.
type Stats struct {
	Queries int64
	Hits    int64
	Entries int64
}

// Store is a persistent read-through cache keyed by string.
type Store struct {
	db       *sql.DB
	path     string
	logger   *slog.Logger
	recorder *metrics.Recorder
	flight   singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder attaches a metrics recorder to the store.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(s *Store) {
		s.recorder = recorder
	}
}

// Open initializes or connects to the cache database at path.
func Open(path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "querycache")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logger}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	// Seed the counters so increments always have a row to update.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO stats (key, value) VALUES (?, 0), (?, 0)`,
		statQuery, statHit,
	)
	if err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// GetJSON returns the JSON payload stored under key, fetching and persisting
// it first when absent. The stored representation is the upstream payload
// re-indented, so a fetch returning malformed JSON fails the lookup and
// caches nothing.
func (s *Store) GetJSON(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	return s.lookup(ctx, key, encodingJSON, fetch)
}

// GetBytes returns the binary payload stored under key, fetching and
// persisting it first when absent. Bytes are persisted base64-encoded.
func (s *Store) GetBytes(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	return s.lookup(ctx, key, encodingBytes, fetch)
}

type encoding int

const (
	encodingJSON encoding = iota
	encodingBytes
)

func (s *Store) lookup(ctx context.Context, key string, enc encoding, fetch FetchFunc) ([]byte, error) {
	if key == "" {
		return nil, errors.New("cache key must not be empty")
	}

	if err := s.bump(ctx, statQuery); err != nil {
		s.recorder.RecordCacheLookup(metrics.CacheLookupError)
		return nil, err
	}

	stored, found, err := s.read(ctx, key)
	if err != nil {
		s.recorder.RecordCacheLookup(metrics.CacheLookupError)
		return nil, err
	}
	if found {
		if err := s.bump(ctx, statHit); err != nil {
			s.recorder.RecordCacheLookup(metrics.CacheLookupError)
			return nil, err
		}
		s.recorder.RecordCacheLookup(metrics.CacheLookupHit)
		return decode(enc, stored)
	}

	// Miss path: a single flight per key performs the fetch; concurrent
	// lookups for the same key share its result or failure.
	value, err, _ := s.flight.Do(key, func() (any, error) {
		// Re-check: an earlier flight may have populated the row while this
		// caller was waiting to start.
		stored, found, err := s.read(ctx, key)
		if err != nil {
			return nil, err
		}
		if found {
			return decode(enc, stored)
		}

		raw, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %q: %w", key, err)
		}

		text, value, err := encode(enc, raw)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}

		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO cache (key, value) VALUES (?, ?)`, key, text,
		); err != nil {
			return nil, fmt.Errorf("persist %q: %w", key, err)
		}

		s.logger.Debug("cached upstream payload",
			logging.String("key", key),
			logging.Int("size", len(text)))
		return value, nil
	})
	if err != nil {
		s.recorder.RecordCacheLookup(metrics.CacheLookupError)
		return nil, err
	}
	s.recorder.RecordCacheLookup(metrics.CacheLookupMiss)
	return value.([]byte), nil
}

func (s *Store) read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) bump(ctx context.Context, counter string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE stats SET value=value+1 WHERE key=?`, counter,
	); err != nil {
		return fmt.Errorf("increment %s: %w", counter, err)
	}
	return nil
}

// encode converts a fetched payload into its persisted text form and the
// decoded value handed back to the caller.
func encode(enc encoding, raw []byte) (string, []byte, error) {
	switch enc {
	case encodingJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return "", nil, fmt.Errorf("parse json payload: %w", err)
		}
		return buf.String(), buf.Bytes(), nil
	case encodingBytes:
		return base64.StdEncoding.EncodeToString(raw), raw, nil
	default:
		return "", nil, fmt.Errorf("unsupported encoding %d", enc)
	}
}

func decode(enc encoding, stored string) ([]byte, error) {
	switch enc {
	case encodingJSON:
		return []byte(stored), nil
	case encodingBytes:
		raw, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			return nil, fmt.Errorf("decode stored bytes: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %d", enc)
	}
}

// Stats returns the persisted usage counters and the current entry count.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM stats`)
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch key {
		case statQuery:
			stats.Queries = value
		case statHit:
			stats.Hits = value
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM cache`).Scan(&stats.Entries); err != nil {
		return Stats{}, fmt.Errorf("count entries: %w", err)
	}
	return stats, nil
}

// Clear removes every cached entry and resets both counters, returning the
// number of entries removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE stats SET value=0`); err != nil {
		return removed, fmt.Errorf("reset stats: %w", err)
	}
	s.logger.Debug("cleared cache", logging.Int64("entries_removed", removed))
	return removed, nil
}
